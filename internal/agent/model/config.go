package model

// ================ Config ================
type ConversationConfig struct {
	StateTTL string `envconfig:"CONVERSATION_STATE_TTL" default:"24h"`
}

type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"64"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.1"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.2"`
}

type PromptConfig struct {
	ProductName string `envconfig:"PROMPT_PRODUCT_NAME" default:"Inflx"`
	CompanyName string `envconfig:"PROMPT_COMPANY_NAME" default:"ServiceHive"`
}

type RetrieverConfig struct {
	TopK int `envconfig:"RETRIEVER_TOP_K" default:"3"`
}

// GenerateConfig bounds every call to the hosted generation service.
type GenerateConfig struct {
	Timeout    string `envconfig:"GENERATE_TIMEOUT" default:"30s"`
	MaxRetries int    `envconfig:"GENERATE_MAX_RETRIES" default:"2"`
}
