package localstore

import (
	"context"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	log "github.com/sirupsen/logrus"
)

type SeedParams struct {
	Count int
	// RandSeed makes the generated posts reproducible, 0 picks a random seed.
	RandSeed int64
	Now      time.Time
}

// SeedBlogs fills the Blogs collection with sample posts, but only if it is empty.
func SeedBlogs(ctx context.Context, store *Store, params SeedParams) (bool, error) {
	if params.Count <= 0 {
		return false, nil
	}
	if params.Now.IsZero() {
		params.Now = time.Now()
	}

	faker := gofakeit.New(params.RandSeed)
	authors := make([]struct{ id, name string }, 3)
	for i := range authors {
		authors[i].id = faker.UUID()
		authors[i].name = faker.Username()
	}

	// most recent first, same as posts added one by one
	blogs := make([]Blog, 0, params.Count)
	for i := 0; i < params.Count; i++ {
		author := authors[faker.Number(0, len(authors)-1)]
		blogs = append(blogs, Blog{
			ID:         faker.UUID(),
			Title:      faker.Sentence(faker.Number(3, 8)),
			Content:    faker.Paragraph(faker.Number(2, 4), faker.Number(3, 6), 12, "\n\n"),
			AuthorID:   author.id,
			AuthorName: author.name,
			CreatedAt:  params.Now.Add(-time.Duration(i+1) * 26 * time.Hour).UTC(),
		})
	}

	seeded, err := store.Blogs.InitIfEmpty(ctx, blogs)
	if err != nil {
		return false, err
	}
	if seeded {
		log.Infof("seeded %d sample blog posts", len(blogs))
	} else {
		log.Debugln("blogs present, seeding skipped")
	}

	return seeded, nil
}
