package chat

import "github.com/ziadkadry99/docchat/internal/llm"

// Prompt templates are process-wide constants, loaded once and never
// mutated at request time. The {follow_up_questions_prompt} and
// {injected_prompt} placeholders are expanded per request.

const chatSystemTemplate = `You are an assistant helping users with questions about the documents in the knowledge base. Keep your answers as brief as possible.
Answer ONLY with the facts listed in the list of sources below. If there isn't enough information below, say you don't know. Do not generate answers that don't use the sources below. If asking a clarifying question to the user would help, ask the question.
For tabular information return it as an HTML table. Do not return markdown format. If the question is not in English, answer in the language used in the question.
Each source has a name followed by a colon and the actual information. Always include the source name for each fact you use in the response. Use square brackets to reference the source, e.g. [info1.txt]. Never combine sources, cite each source separately, e.g. [info1.txt][info2.pdf].
{follow_up_questions_prompt}
{injected_prompt}
`

const followupQuestionsPrompt = `Generate three very brief follow-up questions that the user would likely ask next about the knowledge base.
Use double angle brackets to reference the questions, e.g.
<<Are there exclusions for prescriptions?>>
<<Which plans cover annual checkups?>>
<<How do I file a claim?>>
Try not to repeat questions that have already been asked.
Only generate questions and do not generate any text before or after the questions, such as 'Next Questions'.
Make sure the last question ends with ">>".`

const queryPromptTemplate = `Below is a history of the conversation so far, and a new question asked by the user that needs to be answered by searching the knowledge base.
Generate a search query based on the conversation and the new question. Apply the following rules:
Do not include cited source filenames and document names such as info.txt or doc.pdf in the search query terms.
Do not include any text inside [] or <<>> in the search query terms.
Do not include any special characters like '+'.
If you cannot generate a search query, return just the number 0.`

// queryFewShots demonstrates the expected query rewrites. They are part
// of the fixed prompt contract and never subject to truncation.
var queryFewShots = []llm.Message{
	{Role: llm.RoleUser, Content: "What happens in a performance review?"},
	{Role: llm.RoleAssistant, Content: "performance review process steps"},
	{Role: llm.RoleUser, Content: "Does my plan cover annual eye exams?"},
	{Role: llm.RoleAssistant, Content: "health plan annual eye exam coverage"},
	{Role: llm.RoleUser, Content: "How do I submit a claim?"},
	{Role: llm.RoleAssistant, Content: "claim submission procedure"},
}

const askSystemTemplate = `You are an intelligent assistant helping users with questions about the documents in the knowledge base.
Use 'you' to refer to the individual asking the questions even if they ask with 'I'.
Answer the following question using only the data provided in the sources below.
Each source has a name followed by a colon and the actual information; always include the source name for each fact you use in the response.
If you cannot answer using the sources below, say you don't know.
{follow_up_questions_prompt}
{injected_prompt}
`

// askFewShots is a single demonstration exchange showing the expected
// citation format for the single-question approach.
var askFewShots = []llm.Message{
	{Role: llm.RoleUser, Content: "What is the deductible for the employee plan for a visit to Overlake in Bellevue?\n\nSources:\ninfo1.txt: deductibles depend on whether you are in-network or out-of-network. In-network deductibles are $500 for employees and $1000 for families. Out-of-network deductibles are $1000 for employees and $2000 for families.\ninfo2.pdf: Overlake is in-network for the employee plan.\ninfo3.pdf: Overlake is the name of the area that includes a park and ride near Bellevue.\ninfo4.pdf: In-network institutions include Overlake, Swedish and others in the region."},
	{Role: llm.RoleAssistant, Content: "In-network deductibles are $500 for employees and $1000 for families [info1.txt] and Overlake is in-network for the employee plan [info2.pdf][info4.pdf]."},
}
