package handlers

// TranslateRequest is the JSON body accepted by POST /translate
type TranslateRequest struct {
	Text       string `json:"text" binding:"required"`
	SourceLang string `json:"source_lang" binding:"required"`
	TargetLang string `json:"target_lang" binding:"required"`
	// MaxLength caps the upstream generation length; defaults to 512.
	MaxLength int `json:"max_length"`
}

// TranslateResponse is the JSON body returned by a successful translation
type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
}

// HealthResponse is the JSON body returned by GET /health
type HealthResponse struct {
	Status       string `json:"status"`
	ClientLoaded bool   `json:"client_loaded"`
}

// WarmResponse is the JSON body returned by a successful POST /warm
type WarmResponse struct {
	Status string `json:"status"`
}
