package research

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Prompts holds the four prompt templates.
//
// Templates use explicit argument indexes:
//   - GenerateQueries: %[1]d query count, %[2]s question, %[3]s current date
//   - Research: %[1]s search query (also passed as %[2]s)
//   - Reflect and Finalize: %[1]s question, %[2]s joined summaries
type Prompts struct {
	GenerateQueries string `yaml:"generate_queries"`
	Research        string `yaml:"research"`
	Reflect         string `yaml:"reflect"`
	Finalize        string `yaml:"finalize"`
}

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() Prompts {
	return Prompts{
		GenerateQueries: generateQueriesPrompt,
		Research:        researchPrompt,
		Reflect:         reflectPrompt,
		Finalize:        finalizePrompt,
	}
}

// LoadPrompts reads templates from a YAML file. Fields missing from the file
// keep their default.
func LoadPrompts(path string) (Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Prompts{}, fmt.Errorf("read prompts: %w", err)
	}

	var loaded Prompts
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Prompts{}, fmt.Errorf("parse prompts %s: %w", path, err)
	}
	return loaded.withDefaults(), nil
}

func (p Prompts) withDefaults() Prompts {
	d := DefaultPrompts()
	if p.GenerateQueries == "" {
		p.GenerateQueries = d.GenerateQueries
	}
	if p.Research == "" {
		p.Research = d.Research
	}
	if p.Reflect == "" {
		p.Reflect = d.Reflect
	}
	if p.Finalize == "" {
		p.Finalize = d.Finalize
	}
	return p
}

const generateQueriesPrompt = `Your goal is to generate sophisticated and diverse web search queries for an automated research tool that analyzes results and synthesizes information.

Instructions:
- Prefer a single search query. Only add another query if the question asks about several aspects and one query is not enough.
- Each query should focus on one specific aspect of the question.
- Do not produce more than %[1]d queries.
- Do not generate multiple similar queries.
- Queries should gather the most current information. The current date is %[3]s.
- Use plain text only, without mathematical notation or LaTeX.

Format:
- Respond with a JSON object with exactly these keys:
  - "rationale": why these queries are relevant
  - "query": a list of search queries
- Enclose the JSON object in <json></json> tags.

Example:

Topic: Which grew more last year, Apple revenue or the number of iPhone buyers?
<json>
{
  "rationale": "Comparing growth needs revenue figures and unit sales for the same fiscal period.",
  "query": ["Apple total revenue growth fiscal year 2024", "iPhone unit sales growth fiscal year 2024"]
}
</json>

Context: %[2]s`

const researchPrompt = `Gather the most recent, credible information on "%[1]s" and synthesize it into a verifiable summary.

Instructions:
- Consolidate the key findings and keep track of the source of each piece of information.
- Only include information you can support. Do not make anything up.
- Use plain text only, without mathematical notation or LaTeX.

Format:
- Respond with a JSON object with exactly this key:
  - "summary": summary of the findings
- Enclose the JSON object in <json></json> tags.

Example:
<json>
{
  "summary": "Summary of the findings"
}
</json>

Research Topic:
%[1]s
`

const reflectPrompt = `You are an expert research assistant analyzing summaries about "%[1]s".

Instructions:
- Identify knowledge gaps or areas that need deeper exploration and write one or more follow-up queries.
- If the summaries are sufficient to answer the question, do not write follow-up queries.
- Follow-up queries must be self-contained and include the context needed for a web search.
- Use plain text only, without mathematical notation or LaTeX.

Format:
- Respond with a JSON object with exactly these keys:
  - "isSufficient": true or false
  - "knowledgeGap": what information is missing, or "" when sufficient
  - "followUpQueries": a list of follow-up queries, or [] when sufficient
- Enclose the JSON object in <json></json> tags.

Example:
<json>
{
  "isSufficient": false,
  "knowledgeGap": "The summary lacks performance benchmarks.",
  "followUpQueries": ["What benchmarks are used to evaluate this technology?"]
}
</json>

Summaries:
%[2]s
`

const finalizePrompt = `Write a high-quality answer to the user's question based on the provided summaries.

Instructions:
- Do not mention that you are part of a multi-step research process.
- Use all the information gathered in the summaries.
- Include every citation from the summaries in the answer.
- Use plain text only, without mathematical notation or LaTeX.

Format:
- Respond with a JSON object with exactly this key:
  - "synthesisedResponse": the answer to the user's question
- Always enclose the JSON object in <json></json> tags.

Example:
<json>
{
  "synthesisedResponse": "The answer to the user's question."
}
</json>

User Context:
- %[1]s

Summaries:
%[2]s
`
