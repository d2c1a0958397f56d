package test

import (
	"context"
	"fmt"
	"log/slog"
	"ner-lab/domain/ner"
	"ner-lab/runtime"
	"ner-lab/services"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

// EngineSuite runs the wrapper against a real Stanford NER installation.
type EngineSuite struct {
	suite.Suite
	Config  Config
	service *services.NERService
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.JarPath == "" {
		s.T().Skip("NER_IT_JAR_PATH is not set")
	}

	s.service, err = services.NewNERServiceFromArchive(logs.GetLoggerFromLevel(slog.LevelDebug), runtime.JavaOptions{
		JavaBin:      s.Config.JavaBin,
		JarPath:      s.Config.JarPath,
		Heap:         s.Config.Heap,
		StrictStderr: true,
	}, services.WithWorkDir(s.T().TempDir()))
	s.Require().NoError(err)
}

func (s *EngineSuite) step(name string) (context.Context, context.CancelFunc) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

func (s *EngineSuite) TestTokenize() {
	ctx, cancel := s.step("Tokenize")
	defer cancel()

	tokens, err := s.service.Tokenize(ctx, "Emma Woodhouse, handsome, clever, and rich.")

	s.Require().NoError(err)
	s.Require().Equal([]string{"Emma", "Woodhouse", ",", "handsome", ",", "clever", ",", "and", "rich", "."}, tokens)
}

func (s *EngineSuite) TestRecognize() {
	if s.Config.Model == "" {
		s.T().Skip("NER_IT_MODEL is not set")
	}
	ctx, cancel := s.step("Recognize")
	defer cancel()

	classifier, err := s.service.LoadClassifier(s.Config.Model)
	s.Require().NoError(err)
	defer classifier.Close()

	tokens, err := classifier.Recognize(ctx, "Emma Woodhouse lived at Hartfield in Surrey.")

	s.Require().NoError(err)
	s.Require().Contains(ner.Entities(tokens)["PERSON"], "Emma Woodhouse")
}

func (s *EngineSuite) TestTrainAndRecognize() {
	ctx, cancel := s.step("Train")
	defer cancel()
	dir := s.T().TempDir()

	// Given a tiny labelled corpus
	tokens := lo.Flatten(lo.Times(20, func(int) []string {
		return []string{"Emma", "visited", "Harriet", "at", "Hartfield", "."}
	}))
	tokenFile := filepath.Join(dir, "tokens.txt")
	s.Require().NoError(os.WriteFile(tokenFile, []byte(strings.Join(tokens, "\n")), 0o600))
	labels := map[string]string{"Emma": "PERS", "Harriet": "PERS", "Hartfield": "LOC"}
	trainFile := filepath.Join(dir, "train.tsv")
	s.Require().NoError(s.service.LabelTokens(tokenFile, trainFile, ner.LabelFunc(func(token string) string {
		return lo.ValueOr(labels, token, ner.Background)
	})))

	// When training from a persisted properties file
	props := ner.DefaultProperties()
	props.TrainFile = trainFile
	props.SerializeTo = filepath.Join(dir, "austen.ser.gz")
	propsFile := filepath.Join(dir, "austen.prop")
	s.Require().NoError(props.WriteFile(propsFile))
	s.Require().NoError(s.service.TrainFromFile(ctx, propsFile))

	// Then the model recognises its own training entities
	classifier, err := s.service.LoadClassifier(props.SerializeTo)
	s.Require().NoError(err)
	defer classifier.Close()
	recognised, err := classifier.Recognize(ctx, "Emma visited Harriet at Hartfield .")
	s.Require().NoError(err)
	s.Require().Contains(ner.Entities(recognised)["LOC"], "Hartfield")
}
