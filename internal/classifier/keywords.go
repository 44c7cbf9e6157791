package classifier

import "github.com/tubebrief/tubebrief/internal/model"

// Keyword sets per category, French and English mixed since transcripts
// arrive in either language. Scoring weighs title hits over channel hits
// over transcript hits.
var categoryKeywords = map[model.Category][]string{
	model.CategoryTutorial: {
		"tutorial", "tutoriel", "how to", "comment faire", "step by step",
		"étape par étape", "guide", "install", "installer", "setup",
		"configure", "configurer", "learn how", "apprendre à", "beginner",
		"débutant", "let's build", "on va créer",
	},
	model.CategoryNews: {
		"breaking news", "actualités", "flash info", "headline", "à la une",
		"announced today", "a annoncé", "this week in", "cette semaine",
		"journal", "press release", "communiqué", "latest news",
		"dernières nouvelles",
	},
	model.CategoryEntertainment: {
		"vlog", "challenge", "prank", "gameplay", "gaming", "reaction",
		"réaction", "funny", "drôle", "episode", "épisode", "subscribe",
		"abonnez-vous", "blooper", "fou rire",
	},
	model.CategoryLecture: {
		"lecture", "cours", "conférence", "university", "université",
		"professor", "professeur", "research", "recherche", "theory",
		"théorie", "chapter", "chapitre", "seminar", "séminaire",
		"in this lecture", "dans ce cours",
	},
	model.CategoryReview: {
		"review", "test complet", "avis", "unboxing", "déballage",
		"pros and cons", "avantages et inconvénients", "verdict", "rating",
		"note finale", "comparatif", "comparison", "worth it",
		"vaut le coup", "hands-on", "prise en main",
	},
}
