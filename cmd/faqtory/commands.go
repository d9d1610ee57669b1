package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/faqtory"
	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/ingestion"
	"github.com/poiesic/faqtory/reembed"
	"github.com/poiesic/faqtory/retrieval"
)

// withFaqtory opens the configured Faqtory, runs fn and closes it.
func withFaqtory(c *cli.Context, fn func(f *faqtory.Faqtory) error) error {
	f, err := openFaqtory(c.Context, appConfig(c))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return errors.Join(fn(f), f.Close())
}

func ingestCommand(c *cli.Context) error {
	cfg := appConfig(c)

	chunkSize := cfg.Ingestion.ChunkTokenSize
	if v := c.Int("chunk-size"); v > 0 {
		chunkSize = v
	}
	minNewLines := cfg.Ingestion.MinNewLines
	if v := c.Int("min-new-lines"); v >= 0 {
		minNewLines = v
	}

	docs, err := loadDocuments(c.String("dir"), cfg.Ingestion.Workers)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintf(c.App.ErrWriter, "No documents found in %s\n", c.String("dir"))
		return nil
	}

	return withFaqtory(c, func(f *faqtory.Faqtory) error {
		ingester, err := f.NewIngester(
			ingestion.WithMinNewLines(minNewLines),
			ingestion.WithSimilarityThreshold(cfg.Ingestion.SimilarityThreshold),
		)
		if err != nil {
			return err
		}

		ids, err := ingester.Ingest(c.Context, c.String("chain"), docs, chunkSize)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "Ingested %d of %d documents\n", len(ids), len(docs))
		for _, id := range ids {
			fmt.Fprintf(c.App.Writer, "  %s\n", id)
		}
		return nil
	})
}

func newRetriever(c *cli.Context, f *faqtory.Faqtory) (*retrieval.Retriever, error) {
	return f.NewRetriever(retrieval.WithKeywordBoost(appConfig(c).Retrieval.KeywordBoost))
}

func topK(c *cli.Context) int {
	if v := c.Int("top-k"); v > 0 {
		return v
	}
	return appConfig(c).Retrieval.TopK
}

func queryCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one query is required")
	}

	var filter *core.MetadataFilter
	if doc := c.String("document"); doc != "" {
		filter = &core.MetadataFilter{DocumentID: doc}
	}
	queries := make([]core.Query, c.NArg())
	for i, q := range c.Args().Slice() {
		queries[i] = core.Query{Query: q, TopK: topK(c), Filter: filter}
	}

	return withFaqtory(c, func(f *faqtory.Faqtory) error {
		retriever, err := newRetriever(c, f)
		if err != nil {
			return err
		}
		results, err := retriever.Query(c.Context, c.String("chain"), queries)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}

		for _, result := range results {
			fmt.Fprintf(c.App.Writer, "Query: %s\n", result.Query)
			for _, match := range result.Results {
				fmt.Fprintf(c.App.Writer, "  [%.3f] %s (%s)\n", match.Score, match.ID, match.DocumentID)
				fmt.Fprintf(c.App.Writer, "    %s\n", oneLine(match.Text, 160))
			}
		}
		return nil
	})
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return errors.New("a question is required")
	}

	return withFaqtory(c, func(f *faqtory.Faqtory) error {
		retriever, err := newRetriever(c, f)
		if err != nil {
			return err
		}
		answer, err := retriever.Ask(c.Context, c.String("chain"), core.Query{Query: question, TopK: topK(c)})
		if err != nil {
			return fmt.Errorf("ask failed: %w", err)
		}

		fmt.Fprintln(c.App.Writer, answer.Answer)
		if len(answer.Sources) > 0 {
			fmt.Fprintln(c.App.Writer, "\nSources:")
			for _, s := range answer.Sources {
				fmt.Fprintf(c.App.Writer, "  %s (%s)\n", s.ID, s.DocumentID)
			}
		}
		return nil
	})
}

func questionsCommand(c *cli.Context) error {
	return withFaqtory(c, func(f *faqtory.Faqtory) error {
		records, err := f.Questions().ListQuestions(c.Context, c.String("chain"))
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Fprintf(c.App.Writer, "[%s] %s\n", r.TopicID, r.Question)
			if r.Answer != "" {
				fmt.Fprintf(c.App.Writer, "    %s\n", oneLine(r.Answer, 160))
			}
		}
		fmt.Fprintf(c.App.ErrWriter, "%d questions\n", len(records))
		return nil
	})
}

func cursorsCommand(c *cli.Context) error {
	return withFaqtory(c, func(f *faqtory.Faqtory) error {
		cursors, err := f.Cursors().ListCursors(c.Context, c.String("chain"))
		if err != nil {
			return err
		}
		for _, cur := range cursors {
			fmt.Fprintf(c.App.Writer, "%s\t%d\n", cur.SourceID, cur.LastLineProcessed)
		}
		return nil
	})
}

func topicsListCommand(c *cli.Context) error {
	return withFaqtory(c, func(f *faqtory.Faqtory) error {
		topics, err := f.Topics().ListTopics(c.Context)
		if err != nil {
			return err
		}
		for _, t := range topics {
			fmt.Fprintf(c.App.Writer, "%s\t%s\n", t.ID, t.Name)
		}
		return nil
	})
}

func topicsAddCommand(c *cli.Context) error {
	return withFaqtory(c, func(f *faqtory.Faqtory) error {
		return f.Topics().PutTopics(c.Context, &core.Topic{ID: c.String("id"), Name: c.String("name")})
	})
}

func topicsRemoveCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one topic id is required")
	}
	return withFaqtory(c, func(f *faqtory.Faqtory) error {
		return f.Topics().DeleteTopics(c.Context, c.Args().Slice()...)
	})
}

func deleteCommand(c *cli.Context) error {
	req := core.DeleteRequest{
		IDs:       c.StringSlice("id"),
		DeleteAll: c.Bool("all"),
	}
	filter := &core.MetadataFilter{DocumentID: c.String("document"), Chain: c.String("chain")}
	if !filter.IsEmpty() {
		req.Filter = filter
	}
	if err := core.ValidateDeleteRequest(&req); err != nil {
		return fmt.Errorf("one of --id, --document, --chain or --all is required: %w", err)
	}

	return withFaqtory(c, func(f *faqtory.Faqtory) error {
		before := f.Vectors().Count()
		if err := f.Vectors().Delete(c.Context, req); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Deleted %d chunks\n", before-f.Vectors().Count())
		return nil
	})
}

func reembedCommand(c *cli.Context) error {
	cfg := appConfig(c)
	reembedConfig := reembed.DefaultConfig()
	reembedConfig.BatchSize = c.Int("batch-size")
	reembedConfig.ReportInterval = c.Int("report-interval")

	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	return withFaqtory(c, func(f *faqtory.Faqtory) error {
		reembedder, err := f.NewReembedder(reembedConfig, c.App.ErrWriter)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.Storage.Path)
		fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
		fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
		fmt.Fprintln(c.App.ErrWriter)

		if _, err := reembedder.Run(c.Context, c.String("chain")); err != nil {
			return fmt.Errorf("reembedding failed: %w", err)
		}
		return nil
	})
}

func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
