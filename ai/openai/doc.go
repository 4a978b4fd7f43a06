// Package openai provides ai.Provider implementations backed by
// OpenAI-compatible APIs (OpenAI, Ollama, LocalAI, vLLM) via
// langchaingo.
package openai
