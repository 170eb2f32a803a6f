package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
)

var (
	seedCategories = []string{"Learning to Code", "Mental Health Journey", "Career Transition"}
	seedTags       = []string{"Motivation", "Challenges", "Successes"}
)

type seedPost struct {
	title      string
	excerpt    string
	content    string
	tags       []string
	categories []string
}

var seedPosts = []seedPost{
	{
		title:      "My First Step into Coding",
		excerpt:    "Why I decided to learn to code and what the first week looked like.",
		content:    "# My First Step into Coding\n\nI wrote my first line of code this week. It printed a single word, and it felt enormous.\n\nThe plan is simple: one hour a day, every day, and a post here whenever something clicks.",
		tags:       []string{"Motivation", "Successes"},
		categories: []string{"Learning to Code"},
	},
	{
		title:      "Overcoming Imposter Syndrome",
		excerpt:    "Notes on the voice that says you do not belong, and how I answer it.",
		content:    "# Overcoming Imposter Syndrome\n\nEvery new concept comes with the same thought: everyone else already knows this.\n\nWhat helps is writing down what I could not do a month ago and reading the list when the doubt shows up.",
		tags:       []string{"Challenges"},
		categories: []string{"Mental Health Journey", "Career Transition"},
	},
}

// SeedOptions configures the seed run.
type SeedOptions struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	FakePosts     int
	// FakerSeed makes generated posts reproducible; zero picks a time based seed.
	FakerSeed int64
}

func SeedOptionsFromConfig(cfg config.Config) SeedOptions {
	return SeedOptions{
		AdminUsername: config.GetString(cfg, "ADMIN_USERNAME", "admin"),
		AdminEmail:    config.GetString(cfg, "ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: config.GetString(cfg, "ADMIN_PASSWORD", "password"),
		FakePosts:     config.GetInt(cfg, "SEED_FAKE_POSTS", 0),
		FakerSeed:     int64(config.GetInt(cfg, "SEED_FAKER_SEED", 0)),
	}
}

// SeedReport counts what a run inserted.
type SeedReport struct {
	AdminCreated bool
	Categories   int
	Tags         int
	Posts        int
}

// Seeder fills an empty database with the admin account and example content.
// Running it again only adds what is missing.
type Seeder struct {
	db   database.Database
	opts SeedOptions
}

func NewSeeder(db database.Database, opts SeedOptions) *Seeder {
	return &Seeder{db: db, opts: opts}
}

func (s *Seeder) Run(ctx context.Context) (*SeedReport, error) {
	report := &SeedReport{}

	admin, created, err := s.seedAdmin(ctx)
	if err != nil {
		return nil, err
	}
	report.AdminCreated = created

	for _, name := range seedCategories {
		if _, err := s.db.CategoryRepo().Add(ctx, name); err == nil {
			report.Categories++
		} else if !errs.IsDuplicateSlug(err) {
			return nil, fmt.Errorf("seeding category %q: %w", name, err)
		}
	}
	for _, name := range seedTags {
		if _, err := s.db.TagRepo().Add(ctx, name); err == nil {
			report.Tags++
		} else if !errs.IsDuplicateSlug(err) {
			return nil, fmt.Errorf("seeding tag %q: %w", name, err)
		}
	}

	posts := append([]seedPost{}, seedPosts...)
	posts = append(posts, s.fakePosts()...)
	for _, p := range posts {
		post := &models.Post{
			Title:    p.title,
			Content:  p.content,
			Excerpt:  p.excerpt,
			Status:   models.PostStatusPublished,
			AuthorID: admin.ID,
		}
		err := s.db.PostRepo().Add(ctx, post, p.tags, p.categories)
		if errs.IsDuplicateSlug(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seeding post %q: %w", p.title, err)
		}
		report.Posts++
	}

	log.Info().
		Bool("adminCreated", report.AdminCreated).
		Int("categories", report.Categories).
		Int("tags", report.Tags).
		Int("posts", report.Posts).
		Msg("database seeded")
	return report, nil
}

func (s *Seeder) seedAdmin(ctx context.Context) (*models.User, bool, error) {
	hash, err := HashPassword(s.opts.AdminPassword)
	if err != nil {
		return nil, false, fmt.Errorf("hashing admin password: %w", err)
	}

	admin := &models.User{
		Username: s.opts.AdminUsername,
		Email:    strings.ToLower(s.opts.AdminEmail),
		Password: hash,
		Role:     models.RoleAdmin,
	}
	created, err := s.db.UserRepo().EnsureUser(ctx, admin)
	if err != nil {
		return nil, false, fmt.Errorf("seeding admin user: %w", err)
	}
	if !created {
		log.Info().Str("username", admin.Username).Msg("admin user already exists")
	}
	return admin, created, nil
}

func (s *Seeder) fakePosts() []seedPost {
	if s.opts.FakePosts <= 0 {
		return nil
	}

	seed := s.opts.FakerSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)

	posts := make([]seedPost, 0, s.opts.FakePosts)
	for i := 0; i < s.opts.FakePosts; i++ {
		title := strings.TrimSuffix(faker.Sentence(5), ".")
		posts = append(posts, seedPost{
			title:      fmt.Sprintf("%s %d", title, i+1),
			excerpt:    faker.Sentence(14),
			content:    "# " + title + "\n\n" + faker.Paragraph(3, 4, 12, "\n\n"),
			tags:       []string{faker.RandomString(seedTags)},
			categories: []string{faker.RandomString(seedCategories)},
		})
	}
	return posts
}
