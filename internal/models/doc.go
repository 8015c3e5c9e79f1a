// Package models lists the OpenAI models usable for translation, speech
// synthesis and transcription.
package models
