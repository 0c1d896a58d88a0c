package roadmap

import (
	"fmt"
	"strings"
)

const promptTemplate = `
Generate a detailed learning roadmap for someone who wants to "%s".
Format it strictly as JSON compatible with the database schema:

{
  "title": "Goal Title",
  "goal": "Describe the goal in one sentence",
  "resources": [
    { "name": "Resource Name", "type": "Book|Course|Video|Article", "link": "https://example.com" },
    ...
  ],
  "stages": [
    {
      "title": "Stage 1 Title",
      "steps": [
        { "task": "Step description", "completed": false },
        ...
      ]
    },
    ...
  ]
}

Include 4-6 stages, each with 3-5 specific steps.
Make sure every step has a 'completed' field set to false (for checkbox functionality).
Include at least 3 resources that help in learning the skill.
Do not include any text outside the JSON.
`

// BuildPrompt embeds the goal into the fixed generation instruction. Double
// quotes in the goal are swapped for single quotes so the sentence stays intact.
func BuildPrompt(goal string) string {
	goal = strings.Join(strings.Fields(goal), " ")
	goal = strings.ReplaceAll(goal, `"`, `'`)
	return fmt.Sprintf(promptTemplate, goal)
}
