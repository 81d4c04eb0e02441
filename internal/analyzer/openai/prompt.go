package openai

import (
	"fmt"
	"unicode/utf8"
)

// excerptLimit bounds how much extracted text is sent to the model.
const excerptLimit = 4000

func systemPrompt(documentType string) string {
	return fmt.Sprintf(`You are an AI assistant specialized in analyzing insurance-related documents for Hawaii natural disaster insurance (earthquake, flood, volcano). Analyze the document content and provide insights.

Document Type: %s

Provide analysis in JSON format with:
- summary: Brief summary of the document
- keyPoints: Array of important points relevant to insurance
- relevantToInsurance: Boolean indicating if document is insurance-related
- extractedFields: Object with any structured data (addresses, dates, amounts, etc.)
- riskFactors: Array of identified risk factors for natural disasters
- recommendations: Array of recommendations based on the document`, documentType)
}

func excerpt(text string) string {
	if len(text) <= excerptLimit {
		return text
	}
	cut := excerptLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
