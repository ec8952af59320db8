package document

import (
	"errors"
	"strings"
	"testing"
)

const sample = `{"playerData":{"permadeathMode":0,"geo":1234},"sceneData":{"flags":[1,2,3]}}`

func TestParse_RejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "{", `{"a":}`, "not json"} {
		if _, err := Parse([]byte(in)); !errors.Is(err, ErrInvalidDocument) {
			t.Fatalf("Parse(%q): expected ErrInvalidDocument, got %v", in, err)
		}
	}
}

func TestSet_ReplacesOnlyTheField(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	updated, err := doc.Set("playerData.permadeathMode", 2)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	want := strings.Replace(sample, `"permadeathMode":0`, `"permadeathMode":2`, 1)
	if string(updated.Bytes()) != want {
		t.Fatalf("Set result:\n got %s\nwant %s", updated.Bytes(), want)
	}

	// Original is untouched.
	if string(doc.Bytes()) != sample {
		t.Fatalf("Set mutated the source document")
	}

	n, err := updated.Int("playerData.permadeathMode")
	if err != nil {
		t.Fatalf("Int: %v", err)
	}
	if n != 2 {
		t.Fatalf("permadeathMode = %d, want 2", n)
	}
}

func TestSet_MissingField(t *testing.T) {
	doc, err := Parse([]byte(`{"playerData":{}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := doc.Set("playerData.permadeathMode", 1); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
	if _, err := doc.Get("nope.nothing"); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("Get: expected ErrFieldNotFound, got %v", err)
	}
}

func TestInt_RequiresNumber(t *testing.T) {
	doc, err := Parse([]byte(`{"playerData":{"permadeathMode":"zero"}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := doc.Int("playerData.permadeathMode"); err == nil {
		t.Fatalf("expected error for string field")
	}
}

func TestParseLenient_StripsComments(t *testing.T) {
	in := `{
  // edited by hand
  "playerData": {"permadeathMode": 1,},
}`
	doc, err := ParseLenient([]byte(in))
	if err != nil {
		t.Fatalf("ParseLenient: %v", err)
	}
	n, err := doc.Int("playerData.permadeathMode")
	if err != nil {
		t.Fatalf("Int: %v", err)
	}
	if n != 1 {
		t.Fatalf("permadeathMode = %d, want 1", n)
	}
}

func TestPretty_IsStillValid(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out := doc.Pretty()
	if !strings.Contains(string(out), "\n  \"playerData\"") {
		t.Fatalf("expected two-space indentation, got:\n%s", out)
	}
	if _, err := Parse(out); err != nil {
		t.Fatalf("pretty output does not parse: %v", err)
	}
}
