package main

import (
	"bytes"
	"ner-lab/domain/ner"
	"ner-lab/errors"
	"ner-lab/infrastructure/storage"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupEnv points every setting at the test's own directories.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NER_JAVA_BIN", "java")
	t.Setenv("NER_JAR_PATH", filepath.Join(dir, "missing.jar"))
	t.Setenv("NER_JAVA_HEAP", "")
	t.Setenv("NER_WORK_DIR", "")
	t.Setenv("NER_MODEL_LANGUAGE", "en")
	t.Setenv("NER_STRICT_STDERR", "false")
	t.Setenv("NER_BADGER_FILEPATH", "")
	t.Setenv("NER_BLUGE_FILEPATH", "")
	t.Setenv("LOG_LEVEL", "ERROR")
	return dir
}

// fakeEngine installs a java stand-in that prints output whatever it is asked to do.
func fakeEngine(t *testing.T, dir, output string) {
	t.Helper()
	if goruntime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	javaBin := filepath.Join(dir, "java")
	require.NoError(t, os.WriteFile(javaBin, []byte("#!/bin/sh\nprintf '%s' '"+output+"'\n"), 0o755))
	jarPath := filepath.Join(dir, "stanford-ner.jar")
	require.NoError(t, os.WriteFile(jarPath, nil, 0o644))
	t.Setenv("NER_JAVA_BIN", javaBin)
	t.Setenv("NER_JAR_PATH", jarPath)
}

func TestRun_Version(t *testing.T) {
	setupEnv(t)
	var out bytes.Buffer

	code, err := run([]string{"version"}, &out)

	require.NoError(t, err)
	require.Equal(t, exitOK, code)
	require.Equal(t, "nerctl version "+Version+"\n", out.String())
}

func TestRun_Props_Init_And_Args(t *testing.T) {
	req := require.New(t)
	dir := setupEnv(t)
	path := filepath.Join(dir, "austen.prop")

	// Given a properties file written with the defaults
	code, err := run([]string{"props", "init", path, "--train-file", "train.tsv", "--serialize-to", "austen.ser.gz"}, &bytes.Buffer{})
	req.NoError(err)
	req.Equal(exitOK, code)

	// When its arguments are printed
	var out bytes.Buffer
	code, err = run([]string{"props", "args", path}, &out)

	// Then they match the in-memory properties
	req.NoError(err)
	req.Equal(exitOK, code)
	expected := ner.DefaultProperties()
	expected.TrainFile = "train.tsv"
	expected.SerializeTo = "austen.ser.gz"
	req.Equal(expected.ArgString()+"\n", out.String())
}

func TestRun_Props_Args_Unknown_Key(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "bad.prop")
	require.NoError(t, os.WriteFile(path, []byte("useWord=true\nuseMagic=true\n"), 0o600))

	code, err := run([]string{"props", "args", path}, &bytes.Buffer{})

	require.ErrorIs(t, err, errors.ErrMissingKey)
	require.Equal(t, exitUsage, code)
}

func TestRun_Usage_Errors(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		description string
		args        []string
	}{
		{"Unknown flag", []string{"version", "--verbose"}},
		{"Missing argument", []string{"props", "args"}},
		{"Too many arguments", []string{"label", "a", "b", "c"}},
		{"Tokenize without input", []string{"tokenize"}},
		{"Search without a store", []string{"search", "--tag", "PERSON"}},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			code, err := run(tt.args, &bytes.Buffer{})
			require.Error(t, err)
			require.Equal(t, exitUsage, code)
		})
	}
}

func TestRun_Invalid_Config(t *testing.T) {
	setupEnv(t)
	t.Setenv("LOG_LEVEL", "LOUD")

	code, err := run([]string{"version"}, &bytes.Buffer{})

	require.Error(t, err)
	require.Equal(t, exitUsage, code)
}

func TestRun_Recognize_Missing_Archive(t *testing.T) {
	dir := setupEnv(t)
	model := filepath.Join(dir, "english.ser.gz")
	require.NoError(t, os.WriteFile(model, []byte("model"), 0o600))

	code, err := run([]string{"recognize", model, "--text", "Emma"}, &bytes.Buffer{})

	require.ErrorIs(t, err, errors.ErrResourceNotFound)
	require.Equal(t, exitUsage, code)
}

func TestRun_Recognize_Missing_Input_File(t *testing.T) {
	dir := setupEnv(t)
	model := filepath.Join(dir, "english.ser.gz")
	require.NoError(t, os.WriteFile(model, []byte("model"), 0o600))

	code, err := run([]string{"recognize", model, filepath.Join(dir, "missing.txt")}, &bytes.Buffer{})

	require.ErrorIs(t, err, errors.ErrResourceNotFound)
	require.Equal(t, exitUsage, code)
}

func TestRun_Label_With_Gazetteer(t *testing.T) {
	req := require.New(t)
	dir := setupEnv(t)
	tokens := filepath.Join(dir, "tokens.txt")
	req.NoError(os.WriteFile(tokens, []byte("Emma\nWoodhouse\nvisited\nHartfield\n"), 0o600))
	dictionary := filepath.Join(dir, "people.tsv")
	req.NoError(os.WriteFile(dictionary, []byte("# people\nemma woodhouse\tPERS\n"), 0o600))
	out := filepath.Join(dir, "train.tsv")

	code, err := run([]string{"label", tokens, out, "--gazetteer", dictionary}, &bytes.Buffer{})

	req.NoError(err)
	req.Equal(exitOK, code)
	content, err := os.ReadFile(out)
	req.NoError(err)
	req.Equal("Emma\tPERS\nWoodhouse\tPERS\nvisited\tO\nHartfield\tO\n", string(content))
}

func TestRun_Recognize_Index_Search_And_Cache(t *testing.T) {
	req := require.New(t)
	dir := setupEnv(t)
	fakeEngine(t, dir, "<PERSON>Emma Woodhouse</PERSON> lived at <LOCATION>Hartfield</LOCATION>")
	t.Setenv("NER_BADGER_FILEPATH", filepath.Join(dir, "cache"))
	t.Setenv("NER_BLUGE_FILEPATH", filepath.Join(dir, "index"))
	model := filepath.Join(dir, "english.ser.gz")
	req.NoError(os.WriteFile(model, []byte("model"), 0o600))

	// Given a recognised and indexed text
	var out bytes.Buffer
	code, err := run([]string{"recognize", model, "--no-color", "--index", "--doc", "emma-1",
		"--text", "Emma Woodhouse lived at Hartfield"}, &out)
	req.NoError(err)
	req.Equal(exitOK, code)
	req.Contains(out.String(), "Emma Woodhouse")
	req.Contains(out.String(), "2 entities: LOCATION=1 PERSON=1")

	// When searching the index
	out.Reset()
	code, err = run([]string{"search", "--no-color", "--tag", "PERSON"}, &out)

	// Then the entity is found under its document
	req.NoError(err)
	req.Equal(exitOK, code)
	req.Contains(out.String(), "emma-1")
	req.Contains(out.String(), "Emma Woodhouse")
	req.NotContains(out.String(), "Hartfield")

	// And the recognition was cached
	out.Reset()
	code, err = run([]string{"cache"}, &out)
	req.NoError(err)
	req.Equal(exitOK, code)
	req.Contains(out.String(), "1 of 1 cached recognitions")
}

func TestRenderTokens(t *testing.T) {
	var out bytes.Buffer

	renderTokens(&out, ner.ParseInlineXML("<PERSON>Emma</PERSON> and <PERSON>Harriet</PERSON> at <LOC>Highbury</LOC>"), false)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Contains(t, lines[0], "TAG")
	require.Contains(t, out.String(), "Harriet")
	require.Equal(t, "3 entities: LOC=1 PERSON=2", lines[len(lines)-1])
}

func TestRenderHits_Empty(t *testing.T) {
	var out bytes.Buffer

	renderHits(&out, []storage.EntityHit{}, false)

	require.Equal(t, "No match\n", out.String())
}
