package command_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/edgard/gubot/internal/command"
	boterrors "github.com/edgard/gubot/internal/errors"
)

func TestParse(t *testing.T) {
	t.Parallel()

	type parseTestCase struct {
		name    string
		input   string
		want    command.DeployCommand
		wantErr bool
	}

	testGroups := map[string][]parseTestCase{
		"Well formed": {
			{
				name:  "plain command",
				input: "deploy token 'Foo' with ticker 'FOO' and description 'a coin'",
				want:  command.DeployCommand{Name: "Foo", Symbol: "FOO", Description: "a coin"},
			},
			{
				name:  "mention prefix and trailing text",
				input: "@gubot please deploy token 'Luna' with ticker 'LUN' and description 'lunar coin' thanks!",
				want:  command.DeployCommand{Name: "Luna", Symbol: "LUN", Description: "lunar coin"},
			},
			{
				name:  "mixed case literals",
				input: "DEPLOY Token 'Foo' WITH ticker 'FOO' And Description 'a coin'",
				want:  command.DeployCommand{Name: "Foo", Symbol: "FOO", Description: "a coin"},
			},
			{
				name:  "fields are trimmed",
				input: "deploy token '  Foo Bar ' with ticker ' FB ' and description '  spaced out  '",
				want:  command.DeployCommand{Name: "Foo Bar", Symbol: "FB", Description: "spaced out"},
			},
			{
				name:  "field content passes through unvalidated",
				input: "deploy token '🚀 Moon' with ticker 'toolongsymbol123' and description 'line one\nline two $%^'",
				want:  command.DeployCommand{Name: "🚀 Moon", Symbol: "toolongsymbol123", Description: "line one\nline two $%^"},
			},
			{
				name:  "empty fields still match",
				input: "deploy token '' with ticker '' and description ''",
				want:  command.DeployCommand{},
			},
			{
				name:  "first command wins",
				input: "deploy token 'A' with ticker 'A' and description 'a' deploy token 'B' with ticker 'B' and description 'b'",
				want:  command.DeployCommand{Name: "A", Symbol: "A", Description: "a"},
			},
		},
		"Malformed": {
			{name: "name only", input: "deploy token 'Foo'", wantErr: true},
			{name: "missing description", input: "deploy token 'Foo' with ticker 'FOO'", wantErr: true},
			{name: "double quotes", input: `deploy token "Foo" with ticker "FOO" and description "a coin"`, wantErr: true},
			{name: "quote inside field", input: "deploy token 'Foo's' with ticker 'FOO' and description 'a coin'", wantErr: true},
			{name: "empty text", input: "", wantErr: true},
			{name: "unrelated text", input: "gm @gubot", wantErr: true},
		},
	}

	for groupName, cases := range testGroups {
		cases := cases
		t.Run(groupName, func(t *testing.T) {
			t.Parallel()
			for _, tc := range cases {
				tc := tc
				t.Run(tc.name, func(t *testing.T) {
					t.Parallel()
					got, err := command.Parse(tc.input)
					if tc.wantErr {
						var formatErr *boterrors.CommandFormatError
						if !errors.As(err, &formatErr) {
							t.Fatalf("Parse() error = %v, want CommandFormatError", err)
						}
						if err.Error() != command.Syntax {
							t.Errorf("Parse() error message = %q, want %q", err.Error(), command.Syntax)
						}
						return
					}
					if err != nil {
						t.Fatalf("Parse() unexpected error = %v", err)
					}
					if diff := cmp.Diff(tc.want, got); diff != "" {
						t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
					}
				})
			}
		})
	}
}

func TestHasTrigger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"deploy token 'Foo'", true},
		{"@gubot Deploy Token please", true},
		{"DEPLOY TOKEN", true},
		{"deploy  token 'A' with ticker 'A' and description 'a'", true},
		{"deploy\ttoken", true},
		{"deploy a token", false},
		{"gm", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := command.HasTrigger(tt.text); got != tt.want {
			t.Errorf("HasTrigger(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestParseableTextHasTrigger(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"deploy token 'A' with ticker 'A' and description 'a'",
		"deploy  token 'A' with ticker 'A' and description 'a'",
		"DEPLOY\n\tTOKEN 'A' WITH TICKER 'A' AND DESCRIPTION 'a'",
	}
	for _, in := range inputs {
		if _, err := command.Parse(in); err != nil {
			t.Fatalf("Parse(%q) error = %v", in, err)
		}
		if !command.HasTrigger(in) {
			t.Errorf("HasTrigger(%q) = false for text Parse accepts", in)
		}
	}
}
