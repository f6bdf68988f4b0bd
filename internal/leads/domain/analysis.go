package domain

// SemanticAnalysis is the validated output of the external text analyzer.
type SemanticAnalysis struct {
	IntentStrength        float64   `json:"intentStrength"`
	Sentiment             Sentiment `json:"sentiment"`
	ConversionProbability float64   `json:"conversionProbability"`
	Urgency               Urgency   `json:"urgency"`
	Reasoning             string    `json:"reasoning"`
	DetectedLanguages     []string  `json:"detectedLanguages"`
	KeySignals            []string  `json:"keySignals"`
}
