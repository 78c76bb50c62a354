package chat

import (
	"strconv"
	"strings"
)

// DefaultPersona and closingInstruction are sent verbatim, typos included.
const DefaultPersona = "You are a professional AI medical assistant specializing in diabetes. " +
	"ANswer every question like you are a human. and answer it like you are diabetes doctor. " +
	"and your name is ali. your AI Chatbot"

const closingInstruction = "Give a short, medically helpful answer in 3\u20134 sentences maximum. " +
	"Do NOT write long explanations." +
	"Write in the end in short. This chatbot is only Educational purpose."

// GuidanceOptions is the fixed menu of topics the answer may draw on.
var GuidanceOptions = []string{
	"Lifestyle changes (diet, exercise)",
	"Medication guidance",
	"Monitoring blood glucose",
	"Preventing complications",
	"Resources (ADA, CDC, NHS, WHO)",
	"Other advice",
}

type PromptInput struct {
	Context  string
	Options  []string
	Question string
	Persona  string
}

// ComposePrompt concatenates the persona, reference knowledge, option menu
// and question into one instruction. It has no failure mode.
func ComposePrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString(in.Persona)
	b.WriteString("\n")
	b.WriteString("Use the following reference knowledge:\n")
	b.WriteString(in.Context)
	b.WriteString("\n\n")
	b.WriteString(optionsText(in.Options))
	b.WriteString("\n")
	b.WriteString("User question: ")
	b.WriteString(in.Question)
	b.WriteString("\n")
	b.WriteString(closingInstruction)
	return b.String()
}

func optionsText(options []string) string {
	var b strings.Builder
	b.WriteString("Provide guidance using these options if relevant:\n")
	for i, o := range options {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(o)
		b.WriteString("\n")
	}
	return b.String()
}
