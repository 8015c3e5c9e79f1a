package audio

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Player plays an audio file and returns when playback has finished
type Player interface {
	Play(ctx context.Context, file string) error
}

// CommandPlayer plays audio through the first platform player found on PATH
type CommandPlayer struct {
	goos     string
	lookPath func(string) (string, error)
}

// NewPlayer creates a player for the current platform
func NewPlayer() *CommandPlayer {
	return &CommandPlayer{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
	}
}

// linuxPlayers are tried in order; mpg123 first since it handles MP3 files best
var linuxPlayers = [][]string{
	{"mpg123", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"play", "-q"}, // SoX
	{"paplay"},
	{"aplay", "-q"},
}

// Command returns the playback command for file
func (p *CommandPlayer) Command(ctx context.Context, file string) (*exec.Cmd, error) {
	switch p.goos {
	case "darwin":
		return exec.CommandContext(ctx, "afplay", file), nil
	case "linux", "freebsd", "openbsd":
		for _, player := range linuxPlayers {
			if _, err := p.lookPath(player[0]); err == nil {
				args := append(append([]string{}, player[1:]...), file)
				return exec.CommandContext(ctx, player[0], args...), nil
			}
		}
		return nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		return exec.CommandContext(ctx, "cmd", "/c", "start", "/min", file), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", p.goos)
	}
}

// Play runs the playback command and waits for it to finish
func (p *CommandPlayer) Play(ctx context.Context, file string) error {
	cmd, err := p.Command(ctx, file)
	if err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}
