package cases

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const sampleCSV = `username,password,email,expected
john123,pass123,john@example.com,true
,pass123,john@example.com,false
null,pass123,john@example.com,false
"   ",password123,test@email.com,false
alice,short,alice@mail.com,false

carol,password,carol@domain.com, TRUE
`

func TestReadCSV(t *testing.T) {
	cs, err := ReadCSV(strings.NewReader(sampleCSV), "data.csv")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(cs) != 6 {
		t.Fatalf("len = %d, want 6", len(cs))
	}

	if cs[0].Registration.Username == nil || *cs[0].Registration.Username != "john123" {
		t.Errorf("cs[0].Username = %v, want john123", cs[0].Registration.Username)
	}
	if !cs[0].Expected {
		t.Error("cs[0].Expected = false, want true")
	}
	if cs[0].Source != "data.csv:2" {
		t.Errorf("cs[0].Source = %q, want data.csv:2", cs[0].Source)
	}

	// Empty cell and the null marker are both absent.
	for _, i := range []int{1, 2} {
		if cs[i].Registration.Username != nil {
			t.Errorf("cs[%d].Username = %q, want absent", i, *cs[i].Registration.Username)
		}
	}

	// A whitespace-only cell trims to absent.
	if u := cs[3].Registration.Username; u != nil {
		t.Errorf("cs[3].Username = %q, want absent", *u)
	}

	// Blank lines are skipped; source keeps the real line number.
	if cs[5].Source != "data.csv:8" {
		t.Errorf("cs[5].Source = %q, want data.csv:8", cs[5].Source)
	}
	if !cs[5].Expected {
		t.Error("cs[5].Expected = false, want true")
	}
}

func TestReadCSV_TrimsPaddedCells(t *testing.T) {
	data := "username,password,email,expected\ncarol, password, carol@domain.com, true\n"
	cs, err := ReadCSV(strings.NewReader(data), "padded.csv")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(cs) != 1 {
		t.Fatalf("len = %d, want 1", len(cs))
	}

	reg := cs[0].Registration
	tests := []struct {
		field string
		got   *string
		want  string
	}{
		{"username", reg.Username, "carol"},
		{"password", reg.Password, "password"},
		{"email", reg.Email, "carol@domain.com"},
	}
	for _, tt := range tests {
		if tt.got == nil || *tt.got != tt.want {
			t.Errorf("%s = %v, want %q", tt.field, tt.got, tt.want)
		}
	}
	if !reg.Valid() || !cs[0].Expected {
		t.Errorf("valid = %v, expected = %v; want both true", reg.Valid(), cs[0].Expected)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad expected", "u,p,e,x\nuser,password123,a@b.com,maybe\n"},
		{"too few columns", "u,p,e,x\nuser,password123\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.data), "bad.csv")
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if pe.Source != "bad.csv:2" {
				t.Errorf("Source = %q, want bad.csv:2", pe.Source)
			}
		})
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"username", "password", "email", "expected"},
		{"validuser", "validpass123", "valid@example.com", "true"},
		{"", "password123", "test@email.com", "false"},
		{"user", "123456", "test@email.com", "FALSE"},
	}
	for i, row := range rows {
		cellRef, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cellRef, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	cs, err := ReadXLSX(&buf, "data.xlsx", "")
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(cs) != 3 {
		t.Fatalf("len = %d, want 3", len(cs))
	}
	if !cs[0].Expected || cs[1].Expected || cs[2].Expected {
		t.Errorf("expected flags = %v %v %v", cs[0].Expected, cs[1].Expected, cs[2].Expected)
	}
	if cs[1].Registration.Username != nil {
		t.Error("empty cell should be absent")
	}
	if cs[2].Source != "Sheet1!A4" {
		t.Errorf("Source = %q, want Sheet1!A4", cs[2].Source)
	}
}

func TestReadYAML(t *testing.T) {
	data := `
- name: valid
  username: validuser
  password: validpass123
  email: valid@example.com
  expected: true
- username: null
  password: password123
  email: test@email.com
  expected: false
- username: ""
  password: password123
  email: test@email.com
  expected: false
`
	cs, err := ReadYAML(strings.NewReader(data), "cases.yaml")
	if err != nil {
		t.Fatalf("ReadYAML: %v", err)
	}
	if len(cs) != 3 {
		t.Fatalf("len = %d, want 3", len(cs))
	}
	if cs[0].Name != "valid" {
		t.Errorf("Name = %q, want valid", cs[0].Name)
	}
	if cs[1].Registration.Username != nil {
		t.Error("null username should be absent")
	}
	if u := cs[2].Registration.Username; u == nil || *u != "" {
		t.Errorf("empty username should be present and empty, got %v", u)
	}
	if cs[1].Name != "[null,password123,test@email.com]" {
		t.Errorf("generated Name = %q", cs[1].Name)
	}
}

func TestReadYAML_MissingExpected(t *testing.T) {
	_, err := ReadYAML(strings.NewReader("- username: u\n"), "cases.yaml")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "test-data.csv")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	cs, err := Load(csvPath)
	if err != nil {
		t.Fatalf("Load csv: %v", err)
	}
	if len(cs) != 6 {
		t.Errorf("len = %d, want 6", len(cs))
	}

	headerOnly := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(headerOnly, []byte("username,password,email,expected\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(headerOnly); !errors.Is(err, ErrNoCases) {
		t.Errorf("Load header-only = %v, want ErrNoCases", err)
	}

	if _, err := Load(filepath.Join(dir, "cases.json")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load json = %v, want ErrUnsupportedFormat", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("Load missing file: want error")
	}
}

func TestBuiltin(t *testing.T) {
	cs := Builtin()
	if len(cs) == 0 {
		t.Fatal("Builtin returned no cases")
	}
	for _, c := range cs {
		if got := c.Registration.Valid(); got != c.Expected {
			t.Errorf("%s (%s): Valid() = %v, want %v", c.Name, c.Source, got, c.Expected)
		}
	}
	if cs[0].Source != "builtin:1" {
		t.Errorf("Source = %q, want builtin:1", cs[0].Source)
	}
}

func TestCell(t *testing.T) {
	if cell("") != nil || cell("NULL") != nil || cell(" null ") != nil {
		t.Error("empty and null cells should be absent")
	}
	if cell("   ") != nil {
		t.Error("whitespace-only cell should be absent")
	}
	if got := cell("  bob  "); got == nil || *got != "bob" {
		t.Errorf("cell(padded) = %v, want bob", got)
	}
	if got := cell("nullable"); got == nil || *got != "nullable" {
		t.Errorf("cell(nullable) = %v", got)
	}
}
