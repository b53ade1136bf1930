package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stmtIndex(t *testing.T, substr string) int {
	t.Helper()
	for i, stmt := range schemaStatements {
		if strings.Contains(stmt, substr) {
			return i
		}
	}
	t.Fatalf("no schema statement contains %q", substr)
	return -1
}

// Classes and evaluations reference the grade and evaluation-type catalogs
// through NOT NULL foreign keys, so a fresh database must create and seed
// the catalogs before anything can reference them.
func TestSchemaSeedsCatalogs(t *testing.T) {
	gradesTable := stmtIndex(t, "CREATE TABLE IF NOT EXISTS grades")
	gradesSeed := stmtIndex(t, "INSERT INTO grades")
	require.Greater(t, gradesSeed, gradesTable)
	assert.Contains(t, schemaStatements[gradesSeed], "ON CONFLICT (curso_id) DO NOTHING")
	assert.Contains(t, schemaStatements[gradesSeed], "1° Básico")
	assert.Contains(t, schemaStatements[gradesSeed], "4° Medio")

	typesTable := stmtIndex(t, "CREATE TABLE IF NOT EXISTS evaluation_types")
	typesSeed := stmtIndex(t, "INSERT INTO evaluation_types")
	nameIndex := stmtIndex(t, "idx_evaluation_types_name")
	require.Greater(t, typesSeed, typesTable)
	require.Greater(t, typesSeed, nameIndex, "the unique name index must exist before ON CONFLICT (name) can run")
	assert.Contains(t, schemaStatements[typesSeed], "ON CONFLICT (name) DO NOTHING")
}

func TestSchemaOrderSatisfiesForeignKeys(t *testing.T) {
	deps := map[string]string{
		"CREATE TABLE IF NOT EXISTS classes":     "CREATE TABLE IF NOT EXISTS grades",
		"CREATE TABLE IF NOT EXISTS subjects":    "CREATE TABLE IF NOT EXISTS classes",
		"CREATE TABLE IF NOT EXISTS evaluations": "CREATE TABLE IF NOT EXISTS evaluation_types",
		"CREATE TABLE IF NOT EXISTS payments":    "CREATE TABLE IF NOT EXISTS users",
	}
	for dependent, target := range deps {
		assert.Greater(t, stmtIndex(t, dependent), stmtIndex(t, target),
			"%s must come after %s", dependent, target)
	}
}
