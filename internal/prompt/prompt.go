// Package prompt builds the instruction strings sent to the remote
// model. Everything here is a pure, deterministic string template: no
// side effects, no I/O.
package prompt

import (
	"ooad-assistant/internal/models"
)

const conceptTemplate = `Act as an OOAD expert. Explain the following concept clearly and concisely:
{{query}}

Provide:
1. Clear definition with examples
2. Key characteristics and principles
3. Real-world applications
4. Common misconceptions
5. Best practices and pitfalls`

const codeTemplate = `Generate a practical, production-ready implementation for this request:
{{query}}

Include:
1. Complete, working code with error handling
2. Step-by-step explanation of the implementation in Java
3. Best practices and potential pitfalls
4. Usage examples and test cases
5. Performance considerations`

const designTemplate = `Act as a senior software architect. Address this design request:
{{query}}

Provide:
1. Comprehensive system design overview
2. Key components and their interactions
3. Design patterns and SOLID principles application
4. Scalability and maintainability considerations
5. Potential challenges and mitigation strategies`

const documentTemplate = `Based on the provided document content, please answer:
{{query}}

Provide a detailed and accurate answer using only the information
from the document. If the answer requires OOAD expertise, include
relevant OOAD principles and best practices in the explanation.`

// InitialAnalysis is the prompt for the first-view analysis of a
// document; its result is persisted under the "initial" analysis kind.
const InitialAnalysis = `Analyze this document and provide:
1. Brief content summary
2. Key topics and concepts identified
3. Relevant OOAD principles or patterns found
4. Suggested questions for deeper understanding`

const classificationTemplate = `Analyze this query and determine which specialized agent would be most appropriate.
Query: {{query}}

Choose from:
1. Concept Clarification Agent - For explaining OOAD concepts, principles, and theoretical questions
2. Code Snippet Generator Agent - For generating example code, implementation patterns, and coding solutions
3. Design Assistant Agent - For system design, UML diagrams, and architectural recommendations

Respond with only one of: "concept", "code", or "design"`

var agentTemplates = map[models.AgentCategory]string{
	models.AgentConcept: conceptTemplate,
	models.AgentCode:    codeTemplate,
	models.AgentDesign:  designTemplate,
}

// BuildAgentPrompt renders the template for the given category. Unknown
// categories fall back to the concept template.
func BuildAgentPrompt(query string, category models.AgentCategory) string {
	tmpl, ok := agentTemplates[category]
	if !ok {
		tmpl = conceptTemplate
	}
	return render(tmpl, map[string]string{"query": query})
}

// BuildDocumentPrompt renders the question-answering prompt for
// document mode. The document content itself travels separately as
// gateway context.
func BuildDocumentPrompt(query string) string {
	return render(documentTemplate, map[string]string{"query": query})
}

// excerptLimit bounds how much document text rides along with a
// classification request.
const excerptLimit = 1000

// BuildClassificationPrompt enumerates the three routable agents and,
// when document context is attached, appends either a bounded text
// excerpt or a note that the context is an image.
func BuildClassificationPrompt(query string, content *models.Content) string {
	p := render(classificationTemplate, map[string]string{"query": query})
	if content == nil {
		return p
	}
	if content.IsImage() {
		return p + "\nNote: Query includes an image file."
	}
	if excerpt := content.Excerpt(excerptLimit); excerpt != "" {
		return p + "\nContext from document:\n" + excerpt + "..."
	}
	return p
}
