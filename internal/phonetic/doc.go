// Package phonetic helps clinicians pronounce the Tamil output. It provides
// a local romanization of Tamil script and fetches detailed pronunciation
// guides using OpenAI's GPT models.
package phonetic
