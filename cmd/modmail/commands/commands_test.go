package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"modmail/internal/domain"
)

func sampleResult() recoverResult {
	return recoverResult{
		Report:   domain.RecoveryReport{Scanned: 3, Recovered: 2, Skipped: 1},
		Sessions: []domain.Session{{Correspondent: "42", Thread: "100"}, {Correspondent: "43", Thread: "101"}},
	}
}

func TestWriteResult_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := writeResult(&buf, "text", sampleResult()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"CORRESPONDENT", "42", "101", "scanned 3, recovered 2, skipped 1, duplicates 0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteResult_JSONAndYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := writeResult(&buf, "json", sampleResult()); err != nil {
		t.Fatal(err)
	}
	var fromJSON recoverResult
	if err := json.Unmarshal(buf.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if fromJSON.Report.Recovered != 2 || len(fromJSON.Sessions) != 2 {
		t.Fatalf("json = %+v", fromJSON)
	}

	buf.Reset()
	if err := writeResult(&buf, "yaml", sampleResult()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "correspondent: \"42\"") {
		t.Fatalf("yaml = %s", buf.String())
	}
	var fromYAML recoverResult
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatal(err)
	}
	if fromYAML.Sessions[1].Thread != "101" {
		t.Fatalf("yaml = %+v", fromYAML)
	}
}

func TestWriteResult_UnknownFormat(t *testing.T) {
	if err := writeResult(io.Discard, "xml", sampleResult()); err == nil {
		t.Fatal("expected error")
	}
}

func TestConfigureEnv_Legacy(t *testing.T) {
	t.Setenv("FORUM_CHANNEL_ID", "111")
	t.Setenv("ROLE_ID", "222")
	t.Setenv("MODMAIL_STAFF_ROLE_ID", "333")
	t.Setenv("MODMAIL_MODMAIL_PRESENCE", "hi")

	v := viper.New()
	configureEnv(v)

	if got := v.GetString("modmail.forum_channel_id"); got != "111" {
		t.Fatalf("forum = %q, want legacy value", got)
	}
	if got := v.GetString("modmail.staff_role_id"); got != "333" {
		t.Fatalf("role = %q, want prefixed value to win", got)
	}
	if got := v.GetString("modmail.presence"); got != "hi" {
		t.Fatalf("presence = %q", got)
	}
}

func TestReadLine(t *testing.T) {
	got, err := readLine(strings.NewReader("secret\r\nrest"))
	if err != nil || got != "secret" {
		t.Fatalf("readLine = %q, %v", got, err)
	}
	if got, err := readLine(strings.NewReader("last")); err != nil || got != "last" {
		t.Fatalf("readLine without newline = %q, %v", got, err)
	}
	if _, err := readLine(strings.NewReader("")); err == nil {
		t.Fatal("expected error on empty input")
	}
}
