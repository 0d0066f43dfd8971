package ai

import (
	"fmt"
	"strings"

	"github.com/bilgisen/regionews/internal/models"
)

// SystemInstruction is the output contract sent with every news request.
const SystemInstruction = `You are an expert news aggregator and Telegram channel administrator for the new regions.
Your goal is to find the latest, most relevant news for the requested region using Google Search.
Analyze the search results and produce a structured JSON response.

Output Format:
Return a JSON array of 6 to 12 objects. Each object must have the following fields:
- "title": A concise title of the news, in Russian.
- "summary": A neutral summary of 2-3 sentences, in Russian.
- "source": The name of the source or its URL.
- "telegramPostDraft": A "news flash" style Telegram post in Russian. Start with a fitting emoji, keep it short, end with hashtags for the region and topic (e.g. #ДНР #Новости).
- "timestamp": Approximate time of the event (e.g. "Сегодня, 14:00").

Gather a comprehensive list of news without duplicating content.
Return ONLY the raw JSON array. Do not wrap it in markdown code blocks and do not add any commentary.`

// PromptTemplates contains the task prompt templates
var PromptTemplates = struct {
	RegionalNews string
	Script       string
}{
	RegionalNews: `Найди последние и самые важные новости за последние 24 часа для региона: %s.
Составь подборку из 6-12 ключевых новостей без повторов.

Охвати разные темы:
- официальные заявления и решения властей;
- инфраструктура, восстановление, ЖКХ и транспорт;
- происшествия и безопасность;
- социальная сфера, здравоохранение и образование;
- культура, спорт и общественная жизнь.

Верни результат строго в формате JSON-массива по заданной схеме.`,

	Script: `Create a voice-over script for a %s.
Topic: %s
Tone: %s
Output only the raw script text.`,
}

// BuildNewsPrompt creates the task prompt for a region's full name
func BuildNewsPrompt(regionFullName string) string {
	return fmt.Sprintf(PromptTemplates.RegionalNews, escapeForPrompt(regionFullName))
}

// BuildScriptPrompt creates the prompt for a voice-over script
func BuildScriptPrompt(req models.ScriptRequest) string {
	scriptType := req.Type
	if strings.TrimSpace(scriptType) == "" {
		scriptType = "Commercial"
	}
	tone := req.Tone
	if strings.TrimSpace(tone) == "" {
		tone = "Professional"
	}
	return fmt.Sprintf(PromptTemplates.Script,
		escapeForPrompt(scriptType),
		escapeForPrompt(req.Topic),
		escapeForPrompt(tone))
}

// escapeForPrompt flattens whitespace so user input cannot break the prompt layout
func escapeForPrompt(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
