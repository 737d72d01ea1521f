package extract

import (
	"reflect"
	"testing"
)

func TestBoardNomineesLabeled(t *testing.T) {
	text := "Nominee: John Doe\nCandidate: Mary Smith"
	got := BoardNominees(text)
	if !reflect.DeepEqual(got, []string{"John Doe", "Mary Smith"}) {
		t.Errorf("got %v", got)
	}
}

func TestBoardNomineesAgeAndBiography(t *testing.T) {
	text := `Jane A. Smith, Age 54, joined the board in 2019.
Robert Johnson has served as a director since 2015.`

	got := BoardNominees(text)
	if !reflect.DeepEqual(got, []string{"Jane A. Smith", "Robert Johnson"}) {
		t.Errorf("got %v", got)
	}
}

// Fixed-width director tables: name, 3+ spaces, two-digit age. Entity
// spaces count as separators and generational suffixes are stripped.
func TestBoardNomineesTable(t *testing.T) {
	text := `Thomas J. Carley              65    Chairman of the Board
Anthony Meeker&nbsp;&nbsp;&nbsp;&nbsp;73    Director
William Larsson Jr.           58    Director`

	got := BoardNominees(text)
	want := []string{"Thomas J. Carley", "Anthony Meeker", "William Larsson"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Section headers and titles that happen to fit the name shape are
// rejected by the stopword vocabulary.
func TestBoardNomineesStopwords(t *testing.T) {
	text := `Principal Occupation          62    banking
Nominating Committee          45    governance
Nominee: Board Liaison`

	if got := BoardNominees(text); len(got) != 0 {
		t.Errorf("got %v, want none", got)
	}
}

func TestBoardNomineesDedup(t *testing.T) {
	text := `Nominee: John Doe
John Doe has served as a director since 2012.
John Doe              61    Director`

	got := BoardNominees(text)
	if !reflect.DeepEqual(got, []string{"John Doe"}) {
		t.Errorf("got %v", got)
	}
}

func TestBoardNomineesWordCountLimits(t *testing.T) {
	// A lone mononym never satisfies the two-word minimum.
	if got := BoardNominees("Nominee: Madonna"); len(got) != 0 {
		t.Errorf("got %v, want none", got)
	}
}

func TestBoardNomineesCap(t *testing.T) {
	text := ""
	for _, first := range []string{
		"Alan", "Brian", "Carl", "David", "Erik", "Frank", "Glen", "Henry",
		"Ivan", "Jack", "Kevin", "Liam", "Mark", "Nolan", "Oscar", "Peter",
		"Quinn", "Ralph",
	} {
		text += "Nominee: " + first + " Smithson\n"
	}
	if got := BoardNominees(text); len(got) > 15 {
		t.Errorf("got %d nominees, want at most 15", len(got))
	}
}
