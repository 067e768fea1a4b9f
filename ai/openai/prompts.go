package openai

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/poiesic/earncall/ai"
	"github.com/poiesic/earncall/taxonomy"
)

// exampleChunk and exampleOutput form the worked example embedded in the
// extraction prompt.
const exampleChunk = `  TechNova Q1 Transcript (Edited Version)
  Attendees:
  * Matt Taylor
    ABC Ltd - Analyst
  * Taylor Morgan
    BigBank Senior - Coordinator
  ----
  On April 1st, 2024, John Smith was appointed CFO of TechNova Inc. He works alongside the current Senior VP Olivia Doe. He is currently overseeing the company’s global restructuring initiative, which began in May 2024 and is expected to continue into 2025.
  Analysts believe this strategy may boost profitability, though others argue it risks employee morale. One investor stated, “I think Jane has the right vision.”
  According to TechNova’s Q1 report, the company achieved a 10% increase in revenue compared to Q1 2023. It is expected that TechNova will launch its AI-driven product line in Q3 2025.
  Since June 2024, TechNova Inc has been negotiating strategic partnerships in Asia. Meanwhile, it has also been expanding its presence in Europe, starting July 2024. As of September 2025, the company is piloting a remote-first work policy across all departments.
  Competitor SkyTech announced last month they have developed a new AI chip and launched their cloud-based learning platform.`

var exampleStatements = []taxonomy.Statement{
	{Statement: "Matt Taylor works at ABC Ltd.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Dynamic},
	{Statement: "Matt Taylor is an Analyst.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Dynamic},
	{Statement: "Taylor Morgan works at BigBank.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Dynamic},
	{Statement: "Taylor Morgan is a Senior Coordinator.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Dynamic},
	{Statement: "John Smith was appointed CFO of TechNova Inc on April 1st, 2024.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Static},
	{Statement: "John Smith has held position CFO of TechNova Inc from April 1st, 2024.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Dynamic},
	{Statement: "Olivia Doe is the Senior VP of TechNova Inc.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Dynamic},
	{Statement: "John Smith works with Olivia Doe.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Dynamic},
	{Statement: "John Smith is overseeing TechNova Inc's global restructuring initiative starting May 2024.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Dynamic},
	{Statement: "Analysts believe TechNova Inc's strategy may boost profitability.", StatementType: taxonomy.Opinion, TemporalType: taxonomy.Static},
	{Statement: "Some argue that TechNova Inc's strategy risks employee morale.", StatementType: taxonomy.Opinion, TemporalType: taxonomy.Static},
	{Statement: "An investor stated 'I think John has the right vision' on an unspecified date.", StatementType: taxonomy.Opinion, TemporalType: taxonomy.Static},
	{Statement: "TechNova Inc achieved a 10% increase in revenue in Q1 2024 compared to Q1 2023.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Dynamic},
	{Statement: "It is expected that TechNova Inc will launch its AI-driven product line in Q3 2025.", StatementType: taxonomy.Prediction, TemporalType: taxonomy.Dynamic},
	{Statement: "TechNova Inc started negotiating strategic partnerships in Asia in June 2024.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Static},
	{Statement: "TechNova Inc has been negotiating strategic partnerships in Asia since June 2024.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Dynamic},
	{Statement: "TechNova Inc has been expanding its presence in Europe since July 2024.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Dynamic},
	{Statement: "TechNova Inc started expanding its presence in Europe in July 2024.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Static},
	{Statement: "TechNova Inc is going to pilot a remote-first work policy across all departments as of September 2025.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Static},
	{Statement: "SkyTech is a competitor of TechNova.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Dynamic},
	{Statement: "SkyTech developed new AI chip.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Static},
	{Statement: "SkyTech launched cloud-based learning platform.", StatementType: taxonomy.Fact, TemporalType: taxonomy.Static},
}

const extractionPromptTemplate = `You are an expert finance professional and information-extraction assistant.

===Inputs===
{{- range .Inputs}}
- {{.Key}}: {{.Value}}
{{- end}}

===Tasks===
1. Identify and extract atomic declarative statements from the chunk given the extraction guidelines
2. Label these (1) as Fact, Opinion, or Prediction and (2) temporally as Static or Dynamic

===Extraction Guidelines===
- Structure statements to clearly show subject-predicate-object relationships
- Each statement should express a single, complete relationship (it is better to have multiple smaller statements to achieve this)
- Avoid complex or compound predicates that combine multiple relationships
- Must be understandable without requiring context of the entire document
- Should be minimally modified from the original text
- Must be understandable without requiring context of the entire document,
    - resolve co-references and pronouns to extract complete statements, if in doubt use main_entity for example:
      "your nearest competitor" -> "main_entity's nearest competitor"
    - There should be no reference to abstract entities such as 'the company', resolve to the actual entity name.
    - expand abbreviations and acronyms to their full form

- Statements are associated with a single temporal event or relationship
- Include any explicit dates, times, or quantitative qualifiers that make the fact precise
- If a statement refers to more than 1 temporal event, it should be broken into multiple statements describing the different temporalities of the event.
- If there is a static and dynamic version of a relationship described, both versions should be extracted
{{range .Definitions}}
==== {{heading .Namespace}} DEFINITIONS & GUIDANCE ====
{{- range $i, $c := .Categories}}
{{inc $i}}. {{$c.Name}}
- Definition: {{$c.Definition}}
{{- end}}
{{end}}
===Examples===
Example Chunk: """
{{.ExampleChunk}}
"""

Example Output: {{.ExampleOutput}}
===End of Examples===

**Output format**
Return only a list of extracted labelled statements in the JSON ARRAY of objects that match the schema below:
{{.Schema}}
`

var extractionPrompt = template.Must(template.New("extraction").Funcs(template.FuncMap{
	"heading": func(ns taxonomy.Namespace) string {
		return strings.ToUpper(string(ns)) + " LABELLING"
	},
	"inc": func(i int) int { return i + 1 },
}).Parse(extractionPromptTemplate))

type promptData struct {
	Inputs        []ai.PromptInput
	Definitions   []taxonomy.Section
	ExampleChunk  string
	ExampleOutput string
	Schema        string
}

// RenderExtractionPrompt renders the system prompt used for statement
// extraction. Inputs are listed in order; definitions are rendered one
// section per namespace.
func RenderExtractionPrompt(inputs []ai.PromptInput, definitions []taxonomy.Section, schema string) (string, error) {
	example, err := marshalIndent(statementEnvelope{Statements: exampleStatements})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	err = extractionPrompt.Execute(&sb, promptData{
		Inputs:        inputs,
		Definitions:   definitions,
		ExampleChunk:  exampleChunk,
		ExampleOutput: example,
		Schema:        schema,
	})
	if err != nil {
		return "", fmt.Errorf("render extraction prompt: %w", err)
	}
	return sb.String(), nil
}

// DefaultInputs builds the prompt inputs the pipeline knows about a
// transcript. Empty values are skipped.
func DefaultInputs(company, publicationDate, quarter string) []ai.PromptInput {
	candidates := []ai.PromptInput{
		{Key: "main_entity", Value: company},
		{Key: "publication_date", Value: publicationDate},
		{Key: "document_type", Value: "Earnings Call Transcript"},
		{Key: "quarter", Value: quarter},
	}
	inputs := make([]ai.PromptInput, 0, len(candidates))
	for _, in := range candidates {
		if strings.TrimSpace(in.Value) != "" {
			inputs = append(inputs, in)
		}
	}
	return inputs
}
