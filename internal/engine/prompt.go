package engine

// LLM prompt templates — data only, no logic.

const structureSystem = `You are a resume parsing assistant. You convert raw resume text into structured JSON. You never invent entries that are not in the text.`

// structurePrompt converts extracted resume text into the canonical record shape.
// Args: resume text.
const structurePrompt = `Convert the resume text below into structured JSON.

Respond with valid JSON only (no markdown, no ` + "`" + `json` + "`" + ` block):
{
  "contact": {"name": "", "email": "", "phone": "", "location": "", "title": ""},
  "summary": "One paragraph professional summary, or empty string.",
  "experiences": [
    {"company": "", "title": "", "duration": "Jan 2020 - Present", "location": "", "description": ["achievement line", "achievement line"]}
  ],
  "educations": [
    {"school": "", "degree": "", "duration": "", "location": "", "description": []}
  ],
  "skills": ["skill", "skill"]
}

Rules:
- Keep experiences in the order they appear in the text
- description: one array element per bullet or sentence, no leading bullet characters
- skills: individual items, never comma-joined strings
- Omit fields you cannot find rather than guessing
- Do NOT invent companies, dates, or degrees not present in the text

Resume text:
%s`

const patchSystem = `You are a resume editing assistant. You produce a single JSON patch describing the requested change. You never rewrite parts the user did not ask about.`

// patchPrompt asks for one patch payload against the current record.
// Args: current record JSON, user instruction.
const patchPrompt = `Current resume:
%s

Produce ONE JSON patch applying the instruction below.

Respond with valid JSON only (no markdown, no ` + "`" + `json` + "`" + ` block):
{
  "op": "patch",
  "experiences": [{"id": "existing-id-if-known", "company": "", "title": "", "description": ["new line"]}],
  "skills": {"add": [], "remove": []},
  "summary": {"mode": "replace", "text": ""}
}

Rules:
- op is one of: patch, replace, reset, remove, clear, rewrite, reorganize
- Prefer "patch" (additive merge) unless the instruction demands wholesale change
- Reference existing entries by their "id" field from the resume above
- Include ONLY the fields the instruction touches
- Description lines are complete sentences without bullet characters

Instruction: %s`

// rewriteInstructionPrompt expands a terse instruction into an explicit one.
// Args: instruction.
const rewriteInstructionPrompt = `Rewrite the following resume editing instruction into one explicit, unambiguous sentence.
Output ONLY the rewritten instruction — no explanation, no quotes.

Instruction: %s`
