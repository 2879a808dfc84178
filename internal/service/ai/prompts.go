package ai

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// Prompt templates for the three generative collaborators. All of them
// demand machine-parseable output; the parse helpers tolerate code fences
// around it.

func skillsTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("You are an expert technical interviewer. Analyze the provided context and extract the key skills the role requires."),
		schema.UserMessage("Here is the Job Description:\n{job_description}\n{resume_block}"+
			"Based *only* on the Job Description, extract the key skills. "+
			"Return a single JSON object with one key \"skills\" holding an array of short skill strings. No commentary."),
	)
}

func questionsTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("You are an interviewer for a {difficulty} {job_title} role."),
		schema.UserMessage("Generate exactly {count} diverse interview questions based on:\n"+
			"Job Description:\n{job_description}\n"+
			"Extracted Skills:\n{skills}\n{resume_block}"+
			"Strategy: Gap Analysis, Resume Deep Dive, Standard Questions.\n"+
			"Return *only* a JSON array where every element has the keys \"question\" and \"type\". Do not add numbering or commentary."),
	)
}

func followupTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("You are a sharp interviewer probing a candidate's answer."),
		schema.UserMessage("The candidate was asked:\n\"{original_question}\"\n\n"+
			"They responded:\n\"{answer}\"\n\n"+
			"Ask exactly {count} challenging follow-up question(s) that probe deeper into their answer, question their reasoning, or ask for specifics.\n"+
			"Keep the questions on the *exact same topic*. Do not change the subject.\n"+
			"If asking multiple, make them distinct.\n"+
			"Return *only* the question texts, separated by a newline character if there are multiple. Do not add numbering or commentary."),
	)
}

func scoreTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("You are an expert interviewer providing feedback on a candidate's answer."),
		schema.UserMessage("Evaluate the following answer in structured JSON.\n"+
			"Question: \"{question}\"\n"+
			"Candidate Answer: \"{transcription}\"\n"+
			"AUDIO ANALYSIS: Candidate used ~{filler_count} filler words (um, ah, like).\n\n"+
			"Assess these keys:\n"+
			"- \"technical_score\": integer 1-10 (accuracy, depth)\n"+
			"- \"confidence_score\": integer 1-10 (informed by filler words, fluency, hesitation)\n"+
			"- \"communication_score\": integer 1-10 (clarity, structure)\n"+
			"- \"positives\": list of short bullet points (what was done well)\n"+
			"- \"improvements\": list of specific, actionable advice\n"+
			"- \"suggested_answer\": an improved, ideal version of the answer\n\n"+
			"Return ONLY the single, clean JSON object. Ensure scores reflect quality and filler words."),
	)
}
