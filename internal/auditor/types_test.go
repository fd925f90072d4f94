package auditor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjaikaran/matt-stack/internal/model"
)

const pySchemaFixture = `from ninja import Schema


class UserSchema(Schema):
    id: int
    email: str
    username: str = Field(min_length=3)
    display_name: str | None = None
    avatar: str | None = None
    bio: str = Field(default="", max_length=280)


class OrphanSchema(Schema):
    id: int
`

const tsTypesFixture = `export interface UserSchema {
  id: number;
  email: number;
  username: string;
  avatar: string;
  bio: string;
}
`

const zodSchemaFixture = `import { z } from "zod";

export const userSchema = z.object({
  id: z.number(),
  email: z.string(),
  username: z.string(),
  displayName: z.string().optional(),
  avatar: z.string().optional(),
  bio: z.string(),
});
`

func TestTypeAuditorCrossChecks(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "backend/schemas.py", pySchemaFixture)
	writeProjectFile(t, dir, "frontend/types.ts", tsTypesFixture)
	writeProjectFile(t, dir, "frontend/schemas.ts", zodSchemaFixture)

	a := NewTypeAuditor(Config{ProjectPath: dir})
	findings := a.Run()

	orphans := findingsMatching(findings, "has no matching TS interface")
	require.Len(t, orphans, 1)
	assert.Contains(t, orphans[0].Message, "OrphanSchema")
	assert.Equal(t, model.SeverityWarning, orphans[0].Severity)

	missing := findingsMatching(findings, "missing field 'displayName'")
	require.Len(t, missing, 1)
	assert.Contains(t, missing[0].Message, "from Python 'display_name'")

	mismatches := findingsMatching(findings, "Type mismatch")
	require.Len(t, mismatches, 1)
	assert.Contains(t, mismatches[0].Message, "UserSchema.email")
	assert.Contains(t, mismatches[0].Message, "'str'")
	assert.Contains(t, mismatches[0].Message, "'number'")

	optional := findingsMatching(findings, "Optionality mismatch")
	require.Len(t, optional, 1)
	assert.Contains(t, optional[0].Message, "UserSchema.avatar")
	assert.Equal(t, model.SeverityInfo, optional[0].Severity)

	noMin := findingsMatching(findings, "no .min() constraint")
	require.Len(t, noMin, 1)
	assert.Contains(t, noMin[0].Message, "min_length=3")

	noMax := findingsMatching(findings, "no .max() constraint")
	require.Len(t, noMax, 1)
	assert.Contains(t, noMax[0].Message, "max_length=280")
}

func TestTypeAuditorNoSchemas(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "main.py", "x = 1\n")

	a := NewTypeAuditor(Config{ProjectPath: dir})
	findings := a.Run()

	require.Len(t, findings, 1)
	assert.Equal(t, model.SeverityInfo, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "No Pydantic schemas found")
}

func TestZodNameCandidateMatching(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "backend/schemas.py", `class TodoItemSchema(Schema):
    title: str = Field(min_length=1)
`)
	writeProjectFile(t, dir, "frontend/schemas.ts", `import { z } from "zod";

export const todoItemSchema = z.object({
  title: z.string(),
});
`)

	a := NewTypeAuditor(Config{ProjectPath: dir})
	findings := a.Run()

	// TodoItemSchema resolves to todoItemSchema despite the case and
	// suffix differences, so the constraint comparison runs.
	noMin := findingsMatching(findings, "no .min() constraint")
	require.Len(t, noMin, 1)
	assert.Contains(t, noMin[0].Message, "todoItemSchema")
}

func TestLowerFirst(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"UserSchema", "userSchema"},
		{"todoItem", "todoItem"},
		{"A", "a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lowerFirst(tt.in))
	}
}

func TestSnakeCamelConversion(t *testing.T) {
	tests := []struct{ snake, camel string }{
		{"display_name", "displayName"},
		{"id", "id"},
		{"created_at_utc", "createdAtUtc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.camel, SnakeToCamel(tt.snake))
		assert.Equal(t, tt.snake, CamelToSnake(tt.camel))
	}
	assert.Equal(t, "user_schema", CamelToSnake("UserSchema"))
}
