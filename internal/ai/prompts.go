package ai

import (
	"fmt"

	"coverletter-backend/internal/parsing"
)

const maxPromptText = 12000

func extractJobPrompt(text string) string {
	return fmt.Sprintf(`Extract the hiring details from the job advertisement below.
Reply with a JSON object with exactly these string keys:
roleTitle, companyName, contactPerson, reference, businessAddress.
Use an empty string for anything the advertisement does not state. Do not invent values.

Job advertisement:
%s`, parsing.Truncate(text, maxPromptText))
}

func generateLetterPrompt(text, role, company string) string {
	return fmt.Sprintf(`Draft a concise cover letter for the role %q at %q using the job advertisement below.
Reply with a JSON object with exactly these string keys: opening, body, closing.
Each value is one paragraph of plain text without a salutation or signature.

Job advertisement:
%s`, role, company, parsing.Truncate(text, maxPromptText))
}

const probePrompt = `Reply with the JSON object {"ok": true}.`
