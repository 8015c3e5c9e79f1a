// Package translation provides English to Tamil translation for medical
// instructions. The HybridTranslator masks known medical terms with
// placeholder tokens, sends the remaining prose to a machine translation
// Backend (Google, OpenAI or Gemini) through an LRU cache, and restores the
// dictionary's Tamil terms afterwards.
package translation
