package model

// Category classifies a video's content. Every classification path
// resolves to a member of this set; CategoryDefault is the designated
// fallback, never an empty value.
type Category string

const (
	CategoryTutorial      Category = "tutorial"
	CategoryNews          Category = "news"
	CategoryEntertainment Category = "entertainment"
	CategoryLecture       Category = "lecture"
	CategoryReview        Category = "review"
	CategoryDefault       Category = "default"
)

// Categories lists every recognized category, CategoryDefault last.
var Categories = []Category{
	CategoryTutorial,
	CategoryNews,
	CategoryEntertainment,
	CategoryLecture,
	CategoryReview,
	CategoryDefault,
}

// ParseCategory maps a free-form label to a known category. The second
// return is false when the label is not recognized.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return CategoryDefault, false
}

var categoryNames = map[Category]map[Language]string{
	CategoryTutorial:      {LanguageFrench: "Tutoriel", LanguageEnglish: "Tutorial"},
	CategoryNews:          {LanguageFrench: "Actualités", LanguageEnglish: "News"},
	CategoryEntertainment: {LanguageFrench: "Divertissement", LanguageEnglish: "Entertainment"},
	CategoryLecture:       {LanguageFrench: "Conférence", LanguageEnglish: "Lecture"},
	CategoryReview:        {LanguageFrench: "Test / Avis", LanguageEnglish: "Review"},
	CategoryDefault:       {LanguageFrench: "Général", LanguageEnglish: "General"},
}

// DisplayName returns the human label for the category in the given
// language, falling back to the English label.
func (c Category) DisplayName(lang Language) string {
	names, ok := categoryNames[c]
	if !ok {
		names = categoryNames[CategoryDefault]
	}
	if name, ok := names[lang]; ok {
		return name
	}
	return names[LanguageEnglish]
}

// Language selects the output language of generated summaries.
type Language string

const (
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"
)

// Valid reports whether the language is a recognized enumeration member.
func (l Language) Valid() bool {
	return l == LanguageFrench || l == LanguageEnglish
}

// Mode selects the depth and register of generated summaries.
type Mode string

const (
	// ModeAccessible targets a clear synthesis for a general audience.
	ModeAccessible Mode = "accessible"
	// ModeExpert targets an in-depth analysis for a technical audience.
	ModeExpert Mode = "expert"
)

// Valid reports whether the mode is a recognized enumeration member.
func (m Mode) Valid() bool {
	return m == ModeAccessible || m == ModeExpert
}

// Provider identifies a text-generation backend.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
)

// Valid reports whether the provider is a recognized enumeration member.
func (p Provider) Valid() bool {
	switch p {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini:
		return true
	}
	return false
}

// Method records which classification strategy decided the final category.
type Method string

const (
	// MethodHeuristic means the keyword stage was confident enough on its own.
	MethodHeuristic Method = "heuristic"
	// MethodLLM means the model stage ran and agreed with the keyword candidate.
	MethodLLM Method = "llm"
	// MethodLLMOverride means the model stage ran and replaced the keyword candidate.
	MethodLLMOverride Method = "llm-override"
	// MethodFallback means the model returned an unusable label.
	MethodFallback Method = "fallback"
	// MethodFallbackOnError means the provider call itself failed.
	MethodFallbackOnError Method = "fallback-on-error"
)

// ClassificationResult is the outcome of category detection.
type ClassificationResult struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"` // in [0, 1]
	Method     Method   `json:"method"`
}

// SummaryRequest carries everything summary generation needs. It is an
// immutable value; Credential is an opaque caller-owned secret and must
// never be logged.
type SummaryRequest struct {
	Transcript    string
	Title         string
	Category      Category
	Language      Language
	Mode          Mode
	Provider      Provider
	Credential    string
	DurationLabel string
}
