package main

import (
	"encoding/json"
	"fmt"
	"ner-lab/domain/gazetteer"
	"ner-lab/domain/ner"
	"ner-lab/errors"
	"ner-lab/services"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Drive a Stanford NER installation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable coloured output")

	cmd.AddCommand(
		tokenizeCmd(a),
		labelCmd(a),
		trainCmd(a),
		propsCmd(a),
		recognizeCmd(a),
		searchCmd(a),
		cacheCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  usageArgs(cobra.NoArgs),
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// usageArgs turns cobra's argument errors into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func tokenizeCmd(a *app) *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "tokenize [file]",
		Short: "Split a text file, or --text, into one token per line",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			if len(args) == 0 && text == "" {
				return usageError{fmt.Errorf("a file or --text is required")}
			}
			service, err := a.service(false)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return service.TokenizeFile(cmd.Context(), args[0], cmd.OutOrStdout())
			}
			tokens, err := service.Tokenize(cmd.Context(), text)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tokens, "\n"))
			return err
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Text to tokenize")
	return cmd
}

func labelCmd(a *app) *cobra.Command {
	var gazetteerPath string
	cmd := &cobra.Command{
		Use:   "label <tokens-file> <out-file>",
		Short: "Write the tab-separated training file for a tokens file",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var labeler ner.Labeler
			if gazetteerPath != "" {
				g, err := gazetteer.LoadFile(gazetteerPath)
				if err != nil {
					return err
				}
				a.log.Info("Gazetteer loaded", "phrases", g.Len())
				labeler = g
			}
			// Labelling does not need the engine archive.
			service := services.NewNERService(a.log, nil)
			return service.LabelTokens(args[0], args[1], labeler)
		},
	}
	cmd.Flags().StringVar(&gazetteerPath, "gazetteer", "", "Dictionary of phrase<TAB>TAG lines used to pre-label tokens")
	return cmd
}

func trainCmd(a *app) *cobra.Command {
	var inline bool
	cmd := &cobra.Command{
		Use:   "train <properties-file>",
		Short: "Train a classifier from a properties file",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			service, err := a.service(false)
			if err != nil {
				return err
			}
			if !inline {
				return service.TrainFromFile(cmd.Context(), args[0])
			}
			props, err := ner.LoadProperties(args[0])
			if err != nil {
				return err
			}
			return service.Train(cmd.Context(), props)
		},
	}
	cmd.Flags().BoolVar(&inline, "inline", false, "Pass every property on the command line instead of through -prop")
	return cmd
}

func propsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "props",
		Short: "Manage training properties files",
	}

	var trainFile, serializeTo string
	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a properties file with the default feature set",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			props := ner.DefaultProperties()
			props.TrainFile = trainFile
			props.SerializeTo = serializeTo
			if err := props.WriteFile(args[0]); err != nil {
				return err
			}
			a.log.Debug("Properties written", "path", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&trainFile, "train-file", "", "Tab-separated training file")
	initCmd.Flags().StringVar(&serializeTo, "serialize-to", "", "Where the trained classifier is written")

	argsCmd := &cobra.Command{
		Use:   "args <path>",
		Short: "Print the engine arguments of a properties file",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := ner.LoadProperties(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), props.ArgString())
			return err
		},
	}

	cmd.AddCommand(initCmd, argsCmd)
	return cmd
}

func recognizeCmd(a *app) *cobra.Command {
	var (
		text   string
		docID  string
		index  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "recognize <model> [file]",
		Short: "Tag the entities of a text file, or --text",
		Args:  usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			input := text
			if len(args) == 2 {
				content, err := os.ReadFile(args[1])
				if os.IsNotExist(err) {
					return fmt.Errorf("%w: %s", errors.ErrResourceNotFound, args[1])
				}
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", args[1], err)
				}
				input = string(content)
			}
			if input == "" {
				return usageError{fmt.Errorf("a file or --text is required")}
			}

			service, err := a.service(index)
			if err != nil {
				return err
			}
			classifier, err := service.LoadClassifier(args[0])
			if err != nil {
				return err
			}
			defer classifier.Close()

			var annotation ner.Annotation
			if index {
				docID, annotation, err = classifier.RecognizeAndIndex(cmd.Context(), docID, input)
				if err != nil {
					return err
				}
				a.log.Info("Entities indexed", "doc", docID)
			} else if annotation, err = classifier.Annotate(cmd.Context(), input); err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(annotation)
			}
			renderTokens(cmd.OutOrStdout(), annotation.Tokens, !a.noColor)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Text to classify")
	cmd.Flags().StringVar(&docID, "doc", "", "Document ID used when indexing; generated when empty")
	cmd.Flags().BoolVar(&index, "index", false, "Index the recognised entities")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full annotation as JSON")
	return cmd
}

func searchCmd(a *app) *cobra.Command {
	var (
		tag   string
		text  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search indexed entities by tag and/or text",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer a.close()
			index, err := a.entityIndex()
			if err != nil {
				return err
			}
			hits, err := index.Search(cmd.Context(), tag, text, limit)
			if err != nil {
				return err
			}
			renderHits(cmd.OutOrStdout(), hits, !a.noColor)
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Entity tag, e.g. PERSON")
	cmd.Flags().StringVar(&text, "text", "", "Words of the entity text")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of hits")
	return cmd
}

func cacheCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "List cached recognitions",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer a.close()
			repo, err := a.recognitions()
			if err != nil {
				return err
			}
			entries, err := repo.List(limit)
			if err != nil {
				return err
			}
			total, err := repo.Count()
			if err != nil {
				return err
			}
			renderCache(cmd.OutOrStdout(), entries, total)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries, 0 for all")
	return cmd
}
