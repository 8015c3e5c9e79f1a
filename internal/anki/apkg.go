package anki

import (
	"archive/zip"
	"crypto/md5"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// fieldSeparator joins note fields in the notes table
const fieldSeparator = "\x1f"

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName string
	deckID   int64
	modelID  int64
	cards    []Card
	media    []string       // media file names in zip order
	mediaIdx map[string]int // source path -> position in media
	now      func() time.Time
}

// NewAPKGGenerator creates a new APKG generator
func NewAPKGGenerator(deckName string) *APKGGenerator {
	return &APKGGenerator{
		deckName: deckName,
		deckID:   stableID("deck:" + deckName),
		modelID:  stableID("model:medtamil-phrase"),
		mediaIdx: make(map[string]int),
		now:      time.Now,
	}
}

// AddCard adds a card to the generator
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GenerateAPKG creates an .apkg file
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "medtamil_deck_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	g.collectMedia()

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := g.writePackage(dbPath, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

// collectMedia numbers the audio files that exist on disk
func (g *APKGGenerator) collectMedia() {
	for _, card := range g.cards {
		if card.AudioFile == "" {
			continue
		}
		if _, seen := g.mediaIdx[card.AudioFile]; seen {
			continue
		}
		if _, err := os.Stat(card.AudioFile); err != nil {
			continue
		}
		g.mediaIdx[card.AudioFile] = len(g.media)
		g.media = append(g.media, filepath.Base(card.AudioFile))
	}
}

func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if err := g.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := g.insertNotes(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert notes: %w", err)
	}
	return tx.Commit()
}

var schema = []string{
	`CREATE TABLE col (
		id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
		scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
		usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
		models text NOT NULL, decks text NOT NULL, dconf text NOT NULL, tags text NOT NULL
	)`,
	`CREATE TABLE notes (
		id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
		mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
		flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
		flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE cards (
		id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
		ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
		type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
		ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
		lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
		odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
		ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
		factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
	)`,
	`CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL)`,
	`CREATE INDEX ix_notes_csum ON notes (csum)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
	`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
}

type deckConfig struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc"`
	Mod       int64  `json:"mod"`
	Conf      int    `json:"conf"`
	Dyn       int    `json:"dyn"`
	Usn       int    `json:"usn"`
	NewToday  [2]int `json:"newToday"`
	RevToday  [2]int `json:"revToday"`
	LrnToday  [2]int `json:"lrnToday"`
	TimeToday [2]int `json:"timeToday"`
	ExtendNew int    `json:"extendNew"`
	ExtendRev int    `json:"extendRev"`
}

type noteField struct {
	Name  string   `json:"name"`
	Ord   int      `json:"ord"`
	Font  string   `json:"font"`
	Size  int      `json:"size"`
	Media []string `json:"media"`
}

type cardTemplate struct {
	Name string `json:"name"`
	Ord  int    `json:"ord"`
	Qfmt string `json:"qfmt"`
	Afmt string `json:"afmt"`
}

type noteModel struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Type      int            `json:"type"`
	Mod       int64          `json:"mod"`
	Usn       int            `json:"usn"`
	Sortf     int            `json:"sortf"`
	Did       int64          `json:"did"`
	Req       [][]any        `json:"req"`
	Flds      []noteField    `json:"flds"`
	Tmpls     []cardTemplate `json:"tmpls"`
	CSS       string         `json:"css"`
	LatexPre  string         `json:"latexPre"`
	LatexPost string         `json:"latexPost"`
	Tags      []string       `json:"tags"`
	Vers      []int          `json:"vers"`
}

func (g *APKGGenerator) model(mod int64) noteModel {
	fields := []string{"English", "Tamil", "Romanized", "Audio"}
	flds := make([]noteField, len(fields))
	for i, name := range fields {
		flds[i] = noteField{Name: name, Ord: i, Font: "Arial", Size: 20, Media: []string{}}
	}

	return noteModel{
		ID:   g.modelID,
		Name: "Medical Tamil phrase (English/Tamil)",
		Mod:  mod,
		Usn:  -1,
		Did:  g.deckID,
		Req:  [][]any{{0, "all", []int{0}}, {1, "all", []int{1}}},
		Flds: flds,
		Tmpls: []cardTemplate{
			{Name: "English to Tamil", Ord: 0, Qfmt: englishFront, Afmt: tamilBack},
			{Name: "Tamil to English", Ord: 1, Qfmt: tamilFront, Afmt: englishBack},
		},
		CSS:       cardCSS,
		LatexPre:  `\documentclass[12pt]{article}\begin{document}`,
		LatexPost: `\end{document}`,
		Tags:      []string{},
		Vers:      []int{},
	}
}

const (
	englishFront = `<div class="english">{{English}}</div>`
	tamilBack    = `{{FrontSide}}<hr id="answer"><div class="tamil">{{Tamil}}</div><div class="romanized">{{Romanized}}</div>{{Audio}}`
	tamilFront   = `<div class="tamil">{{Tamil}}</div>{{Audio}}`
	englishBack  = `{{FrontSide}}<hr id="answer"><div class="romanized">{{Romanized}}</div><div class="english">{{English}}</div>`
	cardCSS      = `.card { font-family: Arial, sans-serif; font-size: 20px; text-align: center; }
.english { font-size: 26px; font-weight: bold; color: #2c3e50; }
.tamil { font-family: "Noto Sans Tamil", "Latha", sans-serif; font-size: 30px; color: #1e6f5c; }
.romanized { font-size: 16px; color: #7f8c8d; font-style: italic; }`
)

func (g *APKGGenerator) insertCollection(db *sql.DB) error {
	now := g.now().Unix()

	decks := map[string]deckConfig{
		"1": {ID: 1, Name: "Default", Mod: now, Conf: 1, ExtendNew: 10, ExtendRev: 50},
		strconv.FormatInt(g.deckID, 10): {
			ID: g.deckID, Name: g.deckName, Desc: "Medical terms for talking to Tamil-speaking patients",
			Mod: now, Conf: 1, ExtendNew: 10, ExtendRev: 50,
		},
	}
	models := map[string]noteModel{strconv.FormatInt(g.modelID, 10): g.model(now)}
	conf := map[string]any{
		"nextPos":     1,
		"activeDecks": []int64{1},
		"curDeck":     1,
		"sortType":    "noteFld",
		"schedVer":    1,
		"curModel":    strconv.FormatInt(g.modelID, 10),
	}
	dconf := map[string]any{
		"1": map[string]any{
			"id": 1, "name": "Default", "mod": now, "autoplay": true, "replayq": true,
			"new":   map[string]any{"delays": []int{1, 10}, "ints": []int{1, 4, 7}, "initialFactor": 2500, "perDay": 20, "order": 1},
			"lapse": map[string]any{"delays": []int{10}, "mult": 0, "minInt": 1, "leechFails": 8, "leechAction": 0},
			"rev":   map[string]any{"perDay": 100, "ease4": 1.3, "maxIvl": 36500, "ivlFct": 1},
		},
	}

	values := make([]string, 0, 4)
	for _, v := range []any{conf, models, decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		values = append(values, string(data))
	}

	_, err := db.Exec(`INSERT INTO col VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		now, now*1000, now*1000, values[0], values[1], values[2], values[3])
	return err
}

func (g *APKGGenerator) insertNotes(tx *sql.Tx) error {
	now := g.now()
	base := now.UnixMilli()

	for i, card := range g.cards {
		noteID := base + int64(i*3)

		audioField := ""
		if idx, ok := g.mediaIdx[card.AudioFile]; ok {
			audioField = fmt.Sprintf("[sound:%s]", g.media[idx])
		}
		fields := strings.Join([]string{card.English, card.Tamil, card.Romanized, audioField}, fieldSeparator)

		_, err := tx.Exec(`INSERT INTO notes VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`,
			noteID, noteGUID(card.English), g.modelID, now.Unix(), fields, card.English, checksum(card.English))
		if err != nil {
			return fmt.Errorf("note %q: %w", card.English, err)
		}

		// Two cards per note, one per template
		for ord := 0; ord < 2; ord++ {
			cardID := noteID + int64(ord) + 1
			_, err := tx.Exec(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
				cardID, noteID, g.deckID, ord, now.Unix(), i+1)
			if err != nil {
				return fmt.Errorf("card %q: %w", card.English, err)
			}
		}
	}
	return nil
}

// writePackage zips the collection, the media map and the numbered media files
func (g *APKGGenerator) writePackage(dbPath, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	if err := addFile(archive, "collection.anki2", dbPath); err != nil {
		return err
	}

	mapping := make(map[string]string, len(g.media))
	for src, idx := range g.mediaIdx {
		mapping[strconv.Itoa(idx)] = g.media[idx]
		if err := addFile(archive, strconv.Itoa(idx), src); err != nil {
			return err
		}
	}

	w, err := archive.Create("media")
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(mapping); err != nil {
		return err
	}

	return archive.Close()
}

func addFile(archive *zip.Writer, name, src string) error {
	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	w, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, file)
	return err
}

// stableID derives a positive 48-bit ID so re-exports update the same deck
func stableID(s string) int64 {
	sum := md5.Sum([]byte(s))
	var b [8]byte
	copy(b[2:], sum[:6])
	return int64(binary.BigEndian.Uint64(b[:]))
}

func noteGUID(english string) string {
	return fmt.Sprintf("medtamil_%x", md5.Sum([]byte(english)))[:20]
}

// checksum is Anki's duplicate check: the first 8 hex digits of the
// SHA-1 of the sort field
func checksum(field string) int64 {
	sum := sha1.Sum([]byte(field))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}
