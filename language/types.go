package language

import "time"

// Detection is the language identified for one text.
type Detection struct {
	Text       string
	Language   string
	Code       string
	Confidence float64
	Warnings   []string
	Error      string
}

// ConfidenceScores are the per-class probabilities of a sentiment call.
type ConfidenceScores struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// Opinion is a mined target or assessment span.
type Opinion struct {
	Text      string
	Sentiment string
	Positive  float64
	Negative  float64
	Offset    int
	Length    int
}

// Assessment is an opinion about a target, possibly negated ("not
// great").
type Assessment struct {
	Opinion
	IsNegated bool
}

// SentimentResult is the document-level sentiment for one text.
type SentimentResult struct {
	Text              string
	Sentiment         string
	Scores            ConfidenceScores
	Targets           []Opinion
	Assessments       []Assessment
	OverallConfidence float64
}

type KeyPhraseResult struct {
	Text     string
	Phrases  []string
	Warnings []string
}

type Entity struct {
	Text        string
	Category    string
	Subcategory string
	Confidence  float64
	Offset      int
	Length      int
}

type EntityResult struct {
	Text     string
	Entities []Entity
}

// AnalysisResult bundles every analysis for a single text.
type AnalysisResult struct {
	Text       string
	Language   Detection
	Sentiment  SentimentResult
	KeyPhrases []string
	Entities   []Entity
	Timestamp  time.Time
}

// Wire formats below follow the analyze-text API shapes.

type document struct {
	ID       string `json:"id"`
	Language string `json:"language,omitempty"`
	Text     string `json:"text"`
}

type analyzeTextRequest struct {
	Kind          string `json:"kind"`
	Parameters    any    `json:"parameters,omitempty"`
	AnalysisInput struct {
		Documents []document `json:"documents"`
	} `json:"analysisInput"`
}

type warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type docError struct {
	ID    string `json:"id"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type detectResponse struct {
	Results struct {
		Documents []struct {
			ID               string `json:"id"`
			DetectedLanguage struct {
				Name            string  `json:"name"`
				Iso6391Name     string  `json:"iso6391Name"`
				ConfidenceScore float64 `json:"confidenceScore"`
			} `json:"detectedLanguage"`
			Warnings []warning `json:"warnings"`
		} `json:"documents"`
		Errors []docError `json:"errors"`
	} `json:"results"`
}

type opinionScores struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
}

type wireTarget struct {
	Text             string        `json:"text"`
	Sentiment        string        `json:"sentiment"`
	ConfidenceScores opinionScores `json:"confidenceScores"`
	Offset           int           `json:"offset"`
	Length           int           `json:"length"`
}

type wireAssessment struct {
	wireTarget
	IsNegated bool `json:"isNegated"`
}

type sentimentResponse struct {
	Results struct {
		Documents []struct {
			ID               string           `json:"id"`
			Sentiment        string           `json:"sentiment"`
			ConfidenceScores ConfidenceScores `json:"confidenceScores"`
			Sentences        []struct {
				Text        string           `json:"text"`
				Sentiment   string           `json:"sentiment"`
				Targets     []wireTarget     `json:"targets"`
				Assessments []wireAssessment `json:"assessments"`
			} `json:"sentences"`
		} `json:"documents"`
		Errors []docError `json:"errors"`
	} `json:"results"`
}

type keyPhraseResponse struct {
	Results struct {
		Documents []struct {
			ID         string    `json:"id"`
			KeyPhrases []string  `json:"keyPhrases"`
			Warnings   []warning `json:"warnings"`
		} `json:"documents"`
		Errors []docError `json:"errors"`
	} `json:"results"`
}

type entityResponse struct {
	Results struct {
		Documents []struct {
			ID       string `json:"id"`
			Entities []struct {
				Text            string  `json:"text"`
				Category        string  `json:"category"`
				Subcategory     string  `json:"subcategory"`
				ConfidenceScore float64 `json:"confidenceScore"`
				Offset          int     `json:"offset"`
				Length          int     `json:"length"`
			} `json:"entities"`
		} `json:"documents"`
		Errors []docError `json:"errors"`
	} `json:"results"`
}
