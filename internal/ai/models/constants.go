package models

const (
	// === Groq Models ===
	ModelGroqLlama3_1_8b  = "llama-3.1-8b-instant"
	ModelGroqLlama3_3_70b = "llama-3.3-70b-versatile"
	ModelGroqGptOss120b   = "openai/gpt-oss-120b"
	ModelGroqGptOss20b    = "openai/gpt-oss-20b"

	// === Cerebras Models ===
	ModelCerebrasGptOss120b   = "gpt-oss-120b"
	ModelCerebrasLlama3_3_70b = "llama-3.3-70b"
	ModelCerebrasLlama3_1_8b  = "llama3.1-8b"
)

const (
	// TaskEnrichmentModel: short structured text generation; the small
	// instant model is plenty for two-sentence descriptions
	TaskEnrichmentModel = ModelGroqLlama3_1_8b
)
