package summarizer

import (
	"strconv"
	"strings"

	"github.com/tubebrief/tubebrief/internal/model"
)

// The prompt table is data, not logic: one base instruction per
// (mode, language), one focus block per (category, language), composed
// once at package load and immutable afterwards. Placeholders {title},
// {duration} and {transcript} are filled at render time.

type templateKey struct {
	category model.Category
	mode     model.Mode
	language model.Language
}

var summaryTemplates = buildTemplateTable()

// Resolve returns the summary template for the triple. The lookup is
// total: an unrecognized category falls back to the generic (default)
// template for the same mode and language.
func Resolve(category model.Category, mode model.Mode, language model.Language) string {
	if tpl, ok := summaryTemplates[templateKey{category, mode, language}]; ok {
		return tpl
	}
	return summaryTemplates[templateKey{model.CategoryDefault, mode, language}]
}

func buildTemplateTable() map[templateKey]string {
	table := make(map[templateKey]string)
	for _, cat := range model.Categories {
		for _, mode := range []model.Mode{model.ModeAccessible, model.ModeExpert} {
			for _, lang := range []model.Language{model.LanguageFrench, model.LanguageEnglish} {
				table[templateKey{cat, mode, lang}] = composeTemplate(cat, mode, lang)
			}
		}
	}
	return table
}

func composeTemplate(cat model.Category, mode model.Mode, lang model.Language) string {
	var sb strings.Builder
	sb.WriteString(baseInstructions[lang][mode])
	sb.WriteString("\n\n")
	sb.WriteString(categoryFocus[lang][cat])
	sb.WriteString("\n\n")
	sb.WriteString(outputRules[lang])
	return sb.String()
}

var baseInstructions = map[model.Language]map[model.Mode]string{
	model.LanguageEnglish: {
		model.ModeAccessible: `You are writing a clear, well-structured summary of a YouTube video for a general audience.

Video: "{title}" (duration: {duration})

Write a summary that someone who has not watched the video can read in a few minutes. Favor plain language, explain jargon the first time it appears, and keep the structure simple: a short overview paragraph, the main points as sections, and a closing takeaway.`,
		model.ModeExpert: `You are writing an in-depth analytical summary of a YouTube video for a technically fluent reader.

Video: "{title}" (duration: {duration})

Preserve precision: keep domain terminology, exact figures, names and claims as stated. Organize the material by argument rather than by chronology, note assumptions and caveats the speaker makes, and flag any claim presented without support.`,
	},
	model.LanguageFrench: {
		model.ModeAccessible: `Tu rédiges une synthèse claire et bien structurée d'une vidéo YouTube pour un public non spécialiste.

Vidéo : « {title} » (durée : {duration})

Écris un résumé lisible en quelques minutes par quelqu'un qui n'a pas vu la vidéo. Privilégie un langage simple, explique le jargon à la première occurrence, et garde une structure simple : un court paragraphe d'ensemble, les points principaux en sections, et une conclusion à retenir.`,
		model.ModeExpert: `Tu rédiges une synthèse analytique approfondie d'une vidéo YouTube pour un lecteur techniquement averti.

Vidéo : « {title} » (durée : {duration})

Préserve la précision : conserve la terminologie du domaine, les chiffres exacts, les noms et les affirmations telles qu'énoncées. Organise la matière par argument plutôt que par chronologie, relève les hypothèses et réserves de l'intervenant, et signale toute affirmation avancée sans preuve.`,
	},
}

var categoryFocus = map[model.Language]map[model.Category]string{
	model.LanguageEnglish: {
		model.CategoryTutorial: `This is a tutorial. Structure the summary around the procedure: prerequisites, the steps in order, commands or settings worth copying verbatim, and common pitfalls the author warns about. A reader should be able to follow the process from the summary alone.`,
		model.CategoryNews: `This is news coverage. Lead with what happened, when, and who is involved. Separate established facts from the presenter's commentary, and note any sources cited.`,
		model.CategoryEntertainment: `This is entertainment content. Summarize the premise and the moments that carry the video without flattening its tone; keep it brief and do not over-analyze.`,
		model.CategoryLecture: `This is a lecture or talk. Follow the speaker's line of argument: the question posed, the key concepts introduced (with their definitions), the evidence offered, and the conclusion reached.`,
		model.CategoryReview: `This is a review. Identify the product or work under review, the criteria the reviewer applies, concrete strengths and weaknesses with the examples given, and the final verdict including who it is or is not for.`,
		model.CategoryDefault: `Summarize the content faithfully: the subject, the main points in the order that serves them best, and what the viewer takes away.`,
	},
	model.LanguageFrench: {
		model.CategoryTutorial: `Il s'agit d'un tutoriel. Structure le résumé autour de la procédure : prérequis, étapes dans l'ordre, commandes ou réglages à reprendre tels quels, et pièges signalés par l'auteur. Le lecteur doit pouvoir suivre le processus à partir du seul résumé.`,
		model.CategoryNews: `Il s'agit d'un contenu d'actualité. Commence par ce qui s'est passé, quand, et qui est concerné. Distingue les faits établis du commentaire du présentateur, et mentionne les sources citées.`,
		model.CategoryEntertainment: `Il s'agit d'un contenu de divertissement. Résume le concept et les moments forts sans aplatir le ton de la vidéo ; reste bref et n'analyse pas à l'excès.`,
		model.CategoryLecture: `Il s'agit d'une conférence ou d'un cours. Suis le fil de l'argumentation : la question posée, les concepts clés introduits (avec leur définition), les éléments de preuve avancés, et la conclusion.`,
		model.CategoryReview: `Il s'agit d'un test ou d'un avis. Identifie le produit ou l'œuvre examiné, les critères appliqués, les forces et faiblesses concrètes avec les exemples donnés, et le verdict final en précisant à qui cela s'adresse ou non.`,
		model.CategoryDefault: `Résume le contenu fidèlement : le sujet, les points principaux dans l'ordre qui les sert le mieux, et ce que le spectateur doit retenir.`,
	},
}

var outputRules = map[model.Language]string{
	model.LanguageEnglish: `Format the output in Markdown with a # title and ## section headings. Write only the summary, no preamble about the task.

Transcript:
{transcript}`,
	model.LanguageFrench: `Formate la sortie en Markdown avec un titre # et des sections ##. Écris uniquement le résumé, sans préambule sur la tâche.

Transcription :
{transcript}`,
}

// condenseTemplates produce the intermediate per-chunk condensations of
// the map-then-reduce path. They keep facts, not style.
var condenseTemplates = map[model.Language]string{
	model.LanguageEnglish: `Condense part {index} of {total} of a video transcript. Keep every fact, figure, name and step; drop filler, greetings and repetitions. Write dense prose, no headings.

Transcript part:
{text}`,
	model.LanguageFrench: `Condense la partie {index} sur {total} d'une transcription vidéo. Conserve chaque fait, chiffre, nom et étape ; supprime le remplissage, les salutations et les répétitions. Écris une prose dense, sans titres.

Partie de la transcription :
{text}`,
}

// reduceNotes preface the final pass when the transcript arrived as
// chunk condensations rather than raw text.
var reduceNotes = map[model.Language]string{
	model.LanguageEnglish: "The video was too long for a single pass; what follows are faithful condensations of consecutive transcript sections, in order. Treat them together as the transcript.",
	model.LanguageFrench:  "La vidéo était trop longue pour un seul passage ; ce qui suit sont des condensés fidèles de sections consécutives de la transcription, dans l'ordre. Traite-les ensemble comme la transcription.",
}

// continuationNotes are appended to the prompt for the single retry after
// a truncated-looking result.
var continuationNotes = map[model.Language]string{
	model.LanguageEnglish: "\n\nImportant: your previous attempt was cut off mid-sentence. Produce the complete summary and make sure it ends with a finished sentence.",
	model.LanguageFrench:  "\n\nImportant : ta tentative précédente s'est interrompue en pleine phrase. Produis le résumé complet et assure-toi qu'il se termine par une phrase achevée.",
}

var metaTemplates = map[model.Language]string{
	model.LanguageEnglish: `You are given the titles and summaries of {count} videos from the same playlist. Write a cross-video synthesis: the themes they share, where they diverge or contradict each other, and a suggested viewing order with one line of justification. Format in Markdown with a # title.

{items}`,
	model.LanguageFrench: `Voici les titres et résumés de {count} vidéos d'une même playlist. Rédige une synthèse transversale : les thèmes communs, les points de divergence ou de contradiction, et un ordre de visionnage conseillé avec une ligne de justification. Formate en Markdown avec un titre #.

{items}`,
}

func renderSummaryPrompt(req model.SummaryRequest, transcript string, condensed bool) string {
	var sb strings.Builder
	if condensed {
		sb.WriteString(reduceNotes[req.Language])
		sb.WriteString("\n\n")
	}
	tpl := Resolve(req.Category, req.Mode, req.Language)
	sb.WriteString(strings.NewReplacer(
		"{title}", req.Title,
		"{duration}", req.DurationLabel,
		"{transcript}", transcript,
	).Replace(tpl))
	return sb.String()
}

func renderCondensePrompt(lang model.Language, index, total int, text string) string {
	return strings.NewReplacer(
		"{index}", strconv.Itoa(index),
		"{total}", strconv.Itoa(total),
		"{text}", text,
	).Replace(condenseTemplates[lang])
}
