package criteria

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/microsoft/skillcheck/internal/models"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `# Error Handling

Guidance prose that should be ignored.

✅ CORRECT:
` + "```python" + `
try:
    risky()
except ValueError:
    handle()
` + "```" + `

❌ INCORRECT:
` + "```python" + `
except:
    pass
` + "```" + `

## Logging

✓ Correct logging setup:
` + "```python" + `
logger = logging.getLogger(__name__)
` + "```" + `
`

func TestParse(t *testing.T) {
	t.Run("ClassifiesBlocksBySection", func(t *testing.T) {
		patterns, skipped := Parse([]byte(sampleDoc))
		require.Empty(t, skipped)
		require.Equal(t, []models.CriterionPattern{
			{Text: "try:\n    risky()\nexcept ValueError:\n    handle()", Kind: models.KindCorrect, Section: "Error Handling"},
			{Text: "except:\n    pass", Kind: models.KindIncorrect, Section: "Error Handling"},
			{Text: "logger = logging.getLogger(__name__)", Kind: models.KindCorrect, Section: "Logging"},
		}, patterns)
	})

	t.Run("IsDeterministic", func(t *testing.T) {
		first, _ := Parse([]byte(sampleDoc))
		second, _ := Parse([]byte(sampleDoc))
		require.Equal(t, first, second)
	})

	t.Run("IncorrectWinsOverEmbeddedCorrect", func(t *testing.T) {
		// "INCORRECT" contains "CORRECT" as a substring.
		doc := "INCORRECT:\n```\nos.system(cmd)\n```\n"
		patterns, skipped := Parse([]byte(doc))
		require.Empty(t, skipped)
		require.Len(t, patterns, 1)
		require.Equal(t, models.KindIncorrect, patterns[0].Kind)
	})

	t.Run("LowercaseProseIsNotAMarker", func(t *testing.T) {
		doc := "this is the correct way to do it\n```\nfoo()\n```\n"
		patterns, skipped := Parse([]byte(doc))
		require.Empty(t, patterns)
		require.Empty(t, skipped)
	})

	t.Run("UnmarkedBlockIsIgnored", func(t *testing.T) {
		doc := "# Examples\n\n```python\nprint('hello')\n```\n"
		patterns, skipped := Parse([]byte(doc))
		require.Empty(t, patterns)
		require.Empty(t, skipped)
	})

	t.Run("SectionFallsBackBeforeFirstHeading", func(t *testing.T) {
		doc := "✅ CORRECT:\n```\nfoo()\n```\n"
		patterns, _ := Parse([]byte(doc))
		require.Len(t, patterns, 1)
		require.Equal(t, "(document)", patterns[0].Section)
	})

	t.Run("MarkerWithoutBlockIsSkipped", func(t *testing.T) {
		t.Run("BeforeHeading", func(t *testing.T) {
			doc := "✅ CORRECT:\n\n# Next Section\n\n❌ INCORRECT:\n```\nbad()\n```\n"
			patterns, skipped := Parse([]byte(doc))
			require.Len(t, patterns, 1)
			require.Equal(t, models.KindIncorrect, patterns[0].Kind)
			require.Len(t, skipped, 1)
			require.Contains(t, skipped[0], "no code block before the next heading")
		})

		t.Run("BeforeAnotherMarker", func(t *testing.T) {
			doc := "✅ CORRECT:\n\n❌ INCORRECT:\n```\nbad()\n```\n"
			patterns, skipped := Parse([]byte(doc))
			require.Len(t, patterns, 1)
			require.Len(t, skipped, 1)
			require.Contains(t, skipped[0], "followed by another marker")
		})

		t.Run("BeforeProse", func(t *testing.T) {
			doc := "✅ CORRECT:\n\nJust some explanation.\n\n```\nfoo()\n```\n"
			patterns, skipped := Parse([]byte(doc))
			require.Empty(t, patterns)
			require.Len(t, skipped, 1)
			require.Contains(t, skipped[0], "prose instead of a code block")
		})

		t.Run("AtEndOfDocument", func(t *testing.T) {
			doc := "# Cleanup\n\n✅ CORRECT:\n"
			patterns, skipped := Parse([]byte(doc))
			require.Empty(t, patterns)
			require.Len(t, skipped, 1)
			require.Contains(t, skipped[0], "end of document")
		})
	})

	t.Run("EmptyFencedBlockIsSkipped", func(t *testing.T) {
		doc := "✅ CORRECT:\n```\n```\n"
		patterns, skipped := Parse([]byte(doc))
		require.Empty(t, patterns)
		require.Len(t, skipped, 1)
		require.Contains(t, skipped[0], "empty")
	})

	t.Run("EmptyDocument", func(t *testing.T) {
		patterns, skipped := Parse(nil)
		require.Empty(t, patterns)
		require.Empty(t, skipped)
	})
}

func TestLoader(t *testing.T) {
	writeSkill := func(t *testing.T, dir, skill, relPath, content string) {
		t.Helper()
		path := filepath.Join(dir, skill, relPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	t.Run("LoadsFromReferencesDir", func(t *testing.T) {
		dir := t.TempDir()
		writeSkill(t, dir, "error-handling", filepath.Join("references", CriteriaFileName), sampleDoc)

		patterns, skipped, err := NewLoader(dir).Load("error-handling")
		require.NoError(t, err)
		require.Empty(t, skipped)
		require.Len(t, patterns, 3)
	})

	t.Run("FallsBackToSkillRoot", func(t *testing.T) {
		dir := t.TempDir()
		writeSkill(t, dir, "logging", CriteriaFileName, sampleDoc)

		patterns, _, err := NewLoader(dir).Load("logging")
		require.NoError(t, err)
		require.Len(t, patterns, 3)
	})

	t.Run("PrefersReferencesOverRoot", func(t *testing.T) {
		dir := t.TempDir()
		writeSkill(t, dir, "dual", CriteriaFileName, "✅ CORRECT:\n```\nroot()\n```\n")
		writeSkill(t, dir, "dual", filepath.Join("references", CriteriaFileName), "✅ CORRECT:\n```\nrefs()\n```\n")

		patterns, _, err := NewLoader(dir).Load("dual")
		require.NoError(t, err)
		require.Len(t, patterns, 1)
		require.Equal(t, "refs()", patterns[0].Text)
	})

	t.Run("MissingSkillReturnsNotFound", func(t *testing.T) {
		dir := t.TempDir()
		_, _, err := NewLoader(dir).Load("nope")
		require.Error(t, err)

		var nfe *NotFoundError
		require.ErrorAs(t, err, &nfe)
		require.Equal(t, "nope", nfe.Skill)
		require.Contains(t, nfe.Error(), "acceptance-criteria.md")
	})

	t.Run("ListSkills", func(t *testing.T) {
		dir := t.TempDir()
		writeSkill(t, dir, "zeta", filepath.Join("references", CriteriaFileName), sampleDoc)
		writeSkill(t, dir, "alpha", CriteriaFileName, sampleDoc)
		// Directories without a criteria document are not skills.
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "not-a-skill"), 0755))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hidden"), 0755))

		skills, err := NewLoader(dir).ListSkills()
		require.NoError(t, err)
		require.Equal(t, []string{"alpha", "zeta"}, skills)
	})

	t.Run("ListSkillsMissingDir", func(t *testing.T) {
		skills, err := NewLoader(filepath.Join(t.TempDir(), "absent")).ListSkills()
		require.NoError(t, err)
		require.Empty(t, skills)
	})
}
