package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khyati-14/clinical-data-harmonization/knowledge"
)

func newTestNormalizer(t *testing.T, kb *knowledge.KnowledgeBase) *Normalizer {
	t.Helper()
	if kb == nil {
		kb = knowledge.Empty()
	}
	n, err := New(kb)
	require.NoError(t, err)
	return n
}

func TestNew(t *testing.T) {
	t.Run("nil knowledge base", func(t *testing.T) {
		_, err := New(nil)
		assert.Equal(t, ErrKnowledgeBaseRequired, err)
	})

	t.Run("nil injected lemmatizer", func(t *testing.T) {
		_, err := New(knowledge.Empty(), WithLemmatizer(nil))
		assert.Equal(t, ErrLemmatizerRequired, err)
	})
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := newTestNormalizer(t, nil)
	assert.Equal(t, "", n.Normalize(""))
	assert.Equal(t, "", n.Normalize("   \t\n  "))
}

func TestNormalizePasses(t *testing.T) {
	n := newTestNormalizer(t, nil)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercase and trim",
			in:   "  Metformin HCL  ",
			want: "metformin hcl",
		},
		{
			name: "instruction suffix stripped",
			in:   "lisinopril sig: take one daily until finished",
			want: "lisinopril",
		},
		{
			name: "take-tablets phrase stripped",
			in:   "take 2 (chewable) tablet(s) amoxicillin",
			want: "amoxicillin",
		},
		{
			name: "numeric dose with unit stripped",
			in:   "metformin 500mg",
			want: "metformin",
		},
		{
			name: "decimal dose stripped",
			in:   "warfarin 2.5 mg daily",
			want: "warfarin daily",
		},
		{
			name: "unit requires whole-word boundary",
			in:   "sample 10 mlk",
			want: "sample 10 mlk",
		},
		{
			name: "administrative stop-phrases removed",
			in:   "insulin by injection at bedtime",
			want: "insulin",
		},
		{
			name: "oral inside longer token survives",
			in:   "chloral hydrate syrup",
			want: "chloral hydrate syrup",
		},
		{
			name: "lemmatization to base form",
			in:   "leg ulcers",
			want: "leg ulcer",
		},
		{
			name: "punctuation replaced with space",
			in:   "insulin 70/30 mix",
			want: "insulin 70 30 mix",
		},
		{
			name: "whitespace collapsed",
			in:   "blood   \t glucose\n test",
			want: "blood glucose test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalizeKnowledgeBasePasses(t *testing.T) {
	kb := knowledge.New(map[string]string{
		"insulin glargine": "lantus",
		"insulin":          "insulin regular",
	}, []string{"solution", "hours", "mouth"})
	n := newTestNormalizer(t, kb)

	t.Run("longest correction key wins", func(t *testing.T) {
		// The two-word rule must fire before the one-word rule can
		// fragment "insulin glargine".
		assert.Equal(t, "lantus", n.Normalize("Insulin Glargine 10 units"))
	})

	t.Run("shorter key applies elsewhere", func(t *testing.T) {
		assert.Equal(t, "insulin regular", n.Normalize("insulin"))
	})

	t.Run("redundant keywords removed whole-word", func(t *testing.T) {
		assert.Equal(t, "dextrose", n.Normalize("dextrose solution"))
		assert.Equal(t, "dissolution test", n.Normalize("dissolution test"))
	})
}

func TestNormalizeEndToEnd(t *testing.T) {
	kb := knowledge.New(nil, []string{"mouth", "hours"})
	n := newTestNormalizer(t, kb)

	got := n.Normalize("Take 2 (chewable) tablet(s) by mouth every 8 hours Metformin 500mg")
	assert.Equal(t, "8 metformin", got)
	assert.Contains(t, got, "metformin")
}

func TestNormalizeIdempotent(t *testing.T) {
	kb := knowledge.New(map[string]string{"asa": "aspirin"}, []string{"tablet"})
	n := newTestNormalizer(t, kb)

	inputs := []string{
		"Take 2 (chewable) tablet(s) by mouth every 8 hours Metformin 500mg",
		"ASA 81mg oral tablet",
		"Hemoglobin A1c/Hemoglobin.total in Blood",
		"insulin 70/30",
		"leg ulcers",
		"",
		"already normalized text",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestNormalizeSharedLemmatizer(t *testing.T) {
	base := newTestNormalizer(t, nil)
	shared, err := New(knowledge.Empty(), WithLemmatizer(base.lemmatizer))
	require.NoError(t, err)
	assert.Equal(t, base.Normalize("leg ulcers"), shared.Normalize("leg ulcers"))
}
