package ollama

import (
	"fmt"
	"strings"
)

// NewsPromptBuilder renders the prompts for news summarization, grounded
// question answering, and the temporal diagnostic.
type NewsPromptBuilder struct{}

// NewNewsPromptBuilder creates the default prompt builder.
func NewNewsPromptBuilder() *NewsPromptBuilder {
	return &NewsPromptBuilder{}
}

func (b *NewsPromptBuilder) SummaryPrompt(articleText, title string) string {
	var sb strings.Builder
	sb.WriteString("Please provide a comprehensive summary of the following AI news article:\n\n")
	fmt.Fprintf(&sb, "Title: %s\n", title)
	fmt.Fprintf(&sb, "Content: %s\n\n", articleText)
	sb.WriteString("The summary should include:\n")
	sb.WriteString("1. Main topic and key developments\n")
	sb.WriteString("2. Important companies/people mentioned\n")
	sb.WriteString("3. Potential impact on AI industry\n")
	sb.WriteString("4. Key technical details (if any)\n\n")
	sb.WriteString("Keep the summary concise but informative (150-200 words).")
	return sb.String()
}

func (b *NewsPromptBuilder) AnswerSystemPrompt() string {
	return "You are a helpful AI news assistant that provides accurate information based on provided context. " +
		"Pay special attention to dates and temporal references in both questions and context."
}

func (b *NewsPromptBuilder) AnswerPrompt(question, contextBlock string) string {
	var sb strings.Builder
	sb.WriteString("You are an AI news assistant. Based on the following AI news context, please answer the question accurately.\n\n")
	sb.WriteString("Context (Recent AI News):\n")
	sb.WriteString(contextBlock)
	fmt.Fprintf(&sb, "\nQuestion: %s\n\n", question)
	sb.WriteString("Instructions:\n")
	sb.WriteString("1. Answer based ONLY on the information provided in the context\n")
	sb.WriteString("2. If the question asks about a specific date, focus on news from that timeframe\n")
	sb.WriteString("3. If no relevant information is available, clearly state that\n")
	sb.WriteString("4. Be specific about dates, companies, and technical details when mentioned\n")
	sb.WriteString("5. Provide a clear, concise, and informative answer\n\n")
	sb.WriteString("Answer:")
	return sb.String()
}

func (b *NewsPromptBuilder) TemporalIntentPrompt(query string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following query and extract any date-related information:\n\n")
	fmt.Fprintf(&sb, "Query: %q\n\n", query)
	sb.WriteString("Please identify:\n")
	sb.WriteString("1. Any specific dates mentioned (e.g., \"August 12\", \"12th August\", \"2024-08-12\")\n")
	sb.WriteString("2. Relative time references (e.g., \"yesterday\", \"last week\", \"3 days ago\")\n")
	sb.WriteString("3. The main topic without the date reference\n\n")
	sb.WriteString("Respond in this format:\n")
	sb.WriteString("- Specific date: [date if found, or \"none\"]\n")
	sb.WriteString("- Relative time: [relative time if found, or \"none\"]\n")
	sb.WriteString("- Clean topic: [main topic without date references]\n")
	sb.WriteString("- Days back: [number of days to search back, or 7 as default]")
	return sb.String()
}

var _ PromptBuilder = (*NewsPromptBuilder)(nil)
