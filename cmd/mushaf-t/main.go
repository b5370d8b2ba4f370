package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/mushaf-t/internal/api"
	"github.com/justyntemme/mushaf-t/internal/audio"
	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/internal/config"
	"github.com/justyntemme/mushaf-t/internal/logger"
	"github.com/justyntemme/mushaf-t/internal/parts"
	"github.com/justyntemme/mushaf-t/internal/store"
	"github.com/justyntemme/mushaf-t/internal/ui"
	"github.com/justyntemme/mushaf-t/internal/ui/views"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Define flags
	listChapters := flag.Bool("chapters", false, "Print the list of surahs and exit")
	listParts := flag.Bool("parts", false, "Print the list of juz and exit")
	chapter := flag.Int("chapter", 0, "Print surah N and exit")
	part := flag.Int("part", 0, "Print juz N and exit")
	query := flag.String("search", "", "Search the translation and exit")
	listBookmarks := flag.Bool("bookmarks", false, "Print saved bookmarks and exit")
	toggleRef := flag.String("bookmark", "", "Toggle a bookmark, e.g. 2:255")
	serverURL := flag.String("url", "", "API base URL (saved to config)")
	ephemeral := flag.Bool("ephemeral", false, "Keep bookmarks and settings in memory only")
	showHelp := flag.Bool("help", false, "Show help message")
	flag.BoolVar(showHelp, "h", false, "Show help (shorthand)")
	debug := flag.Bool("debug", false, "Show debug information")

	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Override server URL if provided via flag
	if *serverURL != "" {
		if err := cfg.SetServerURL(*serverURL); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save server URL to config: %v\n", err)
		}
	}
	if *ephemeral {
		cfg.Driver = config.StorageMemory
	}

	log, err := logger.New(cfg.Level, cfg.Pretty, cfg.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	client := api.NewClientFromConfig(cfg, log)

	// Debug mode
	if *debug {
		printDebug(cfg, client)
		os.Exit(0)
	}

	ctx := context.Background()
	kv, err := store.OpenKV(ctx, cfg.Storage)
	if err != nil {
		// Reading still works without persistence
		log.Warn("storage unavailable, falling back to memory",
			logger.String("driver", cfg.Driver), logger.Error(err))
		kv = store.NewMemoryKV()
	}
	st := store.Open(ctx, kv, log)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Error("closing store", logger.Error(err))
		}
	}()

	c := &cli{client: client, store: st}
	var cmdErr error
	switch {
	case *listChapters:
		cmdErr = c.chapters(ctx)
	case *listParts:
		c.parts()
	case *chapter != 0:
		cmdErr = c.chapter(ctx, *chapter)
	case *part != 0:
		cmdErr = c.part(ctx, *part)
	case *query != "":
		cmdErr = c.search(ctx, *query)
	case *listBookmarks:
		c.bookmarks()
	case *toggleRef != "":
		cmdErr = c.toggleBookmark(*toggleRef)
	default:
		cmdErr = runTUI(cfg, client, st, log)
	}

	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", common.UserMessage(cmdErr))
		log.Error("command failed", logger.Error(cmdErr))
		// os.Exit skips deferred calls
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		_ = st.Close(closeCtx)
		cancel()
		os.Exit(1)
	}
}

func runTUI(cfg *config.Config, client *api.Client, st *store.Store, log logger.Logger) error {
	player := audio.NewController(audio.ExecLoader(cfg.Audio), log)
	defer player.Close()

	app := ui.NewApp(views.Deps{
		Gateway: client,
		Store:   st,
		Audio:   player,
		Log:     log,
	},
		"Server:  "+cfg.ServerURL,
		"Storage: "+cfg.Driver,
		"Player:  "+cfg.Player,
		"Config:  "+cfg.Path(),
	)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func printDebug(cfg *config.Config, client *api.Client) {
	fmt.Printf("Config path: %s\n", cfg.Path())
	fmt.Printf("Server URL: %s\n", cfg.ServerURL)
	fmt.Printf("Editions: %s / %s\n", cfg.RecitationEdition, cfg.TranslationEdition)
	fmt.Printf("Storage: %s\n", cfg.Driver)
	fmt.Printf("Audio player: %s %v\n", cfg.Player, cfg.Args)
	fmt.Printf("Log: %s (%s)\n", cfg.File, cfg.Level)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Health(ctx); err != nil {
		fmt.Printf("Server reachable: no (%s)\n", common.UserMessage(err))
	} else {
		fmt.Printf("Server reachable: yes\n")
	}
}

func printUsage() {
	fmt.Println("mushaf-t - Terminal Quran reader")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mushaf-t                    Start the TUI application")
	fmt.Println("  mushaf-t -chapter 36        Print a surah")
	fmt.Println("  mushaf-t -part 30           Print a juz")
	fmt.Println("  mushaf-t -search mercy      Search the translation")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -chapters              List all surahs")
	fmt.Println("  -parts                 List all juz")
	fmt.Println("  -bookmarks             List saved bookmarks")
	fmt.Println("  -bookmark <ch:v>       Add or remove a bookmark")
	fmt.Println("  -url <url>             Set API base URL (saved to config)")
	fmt.Println("  -ephemeral             Do not persist bookmarks or settings")
	fmt.Println("  -debug                 Print resolved configuration")
	fmt.Println("  -h, -help              Show this help message")
	fmt.Println()
	fmt.Println("Environment variables use the MUSHAF_ prefix, e.g. MUSHAF_STORAGE_DRIVER=redis")
}

// cli implements the one-shot command line modes
type cli struct {
	client *api.Client
	store  *store.Store
}

func (c *cli) chapters(ctx context.Context) error {
	chapters, err := c.client.ListChapters(ctx)
	if err != nil {
		return err
	}
	for _, ch := range chapters {
		fmt.Printf("%3d  %-18s %-28s %3d ayahs  %s\n",
			ch.Number, ch.EnglishName, ch.EnglishNameTranslation, ch.NumberOfAyahs, ch.RevelationType)
	}
	return nil
}

func (c *cli) parts() {
	for _, p := range c.client.ListParts() {
		fmt.Printf("%2d  %-16s %7s - %s\n", p.Number, p.Name, p.Start(), p.End())
	}
}

func (c *cli) chapter(ctx context.Context, n int) error {
	ch, verses, err := c.client.FetchChapterContent(ctx, n)
	if err != nil {
		return err
	}
	fmt.Printf("%d. %s (%s) - %s\n\n", ch.Number, ch.EnglishName, ch.Name, ch.EnglishNameTranslation)
	c.printVerses(verses, ch.Number)
	return c.store.MarkChapterRead(ch)
}

func (c *cli) part(ctx context.Context, n int) error {
	p, verses, err := c.client.FetchPartContent(ctx, n)
	if err != nil {
		return err
	}
	fmt.Printf("Juz %d. %s (%s - %s)\n\n", p.Number, p.Name, p.Start(), p.End())
	c.printVerses(verses, 0)
	return c.store.MarkPartRead(p)
}

func (c *cli) printVerses(verses []models.Verse, chapter int) {
	arabic := c.store.Preferences().Language == models.LanguageArabic
	for _, v := range verses {
		fmt.Printf("[%s] %s\n", v.Ref(chapter), v.Text)
		if !arabic && v.Translation != "" {
			fmt.Printf("        %s\n", v.Translation)
		}
	}
}

func (c *cli) search(ctx context.Context, q string) error {
	results, err := c.client.SearchVerses(ctx, q)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Printf("No verses match %q\n", q)
		return nil
	}
	for _, v := range results {
		fmt.Printf("[%s] %s: %s\n", v.Ref(0), v.ChapterName, v.Text)
	}
	return nil
}

func (c *cli) bookmarks() {
	bookmarks := c.store.Bookmarks()
	if len(bookmarks) == 0 {
		fmt.Println("No bookmarks")
		return
	}
	for _, b := range bookmarks {
		fmt.Printf("%-8s %s\n", b.Ref(), b.Date)
	}
}

func (c *cli) toggleBookmark(s string) error {
	ref, err := parseBookmarkRef(s)
	if err != nil {
		return err
	}
	if c.store.ToggleBookmark(ref.Chapter, ref.Verse) {
		fmt.Printf("Bookmarked %s\n", ref)
	} else {
		fmt.Printf("Removed bookmark %s\n", ref)
	}
	return nil
}

// parseBookmarkRef accepts "chapter:verse" naming an existing verse
func parseBookmarkRef(s string) (models.VerseRef, error) {
	ref, err := models.ParseVerseRef(s)
	if err != nil {
		return models.VerseRef{}, fmt.Errorf("%w: %v", common.ErrInvalidRef, err)
	}
	if !parts.ValidRef(ref) {
		return models.VerseRef{}, fmt.Errorf("verse %s does not exist: %w", ref, common.ErrInvalidRef)
	}
	return ref, nil
}
