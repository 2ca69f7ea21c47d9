package domain

type Prompt struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SystemPrompt string `json:"system_prompt"`
	UserPrompt   string `json:"user_prompt"`
}

type PromptList struct {
	Prompts      []Prompt `json:"prompts"`
	LivePromptID *string  `json:"livePromptId"`
}

type SelectLivePromptRequest struct {
	ID string `json:"id"`
}
