package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/justyntemme/mushaf-t/internal/config"
)

// defaultArgs keeps each known player headless and quiet; the url is
// appended last
var defaultArgs = map[string][]string{
	"mpv":    {"--no-video", "--really-quiet", "--no-terminal"},
	"ffplay": {"-nodisp", "-autoexit", "-loglevel", "quiet"},
	"mpg123": {"-q"},
}

// ExecLoader returns a Loader that streams each url through an external
// player process
func ExecLoader(cfg config.Audio) Loader {
	player, args := resolvePlayer(cfg)

	return func(ctx context.Context, url string) (Player, error) {
		path, err := exec.LookPath(player)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrNoPlayer, player, err)
		}
		return &execPlayer{
			path: path,
			args: append(append([]string{}, args...), url),
			done: make(chan struct{}),
		}, nil
	}
}

// resolvePlayer picks the player binary and its flags. Configured args win;
// otherwise the player's own defaults apply.
func resolvePlayer(cfg config.Audio) (string, []string) {
	player := cfg.Player
	if player == "" {
		player = config.DefaultAudioPlayer
	}
	if len(cfg.Args) > 0 {
		return player, cfg.Args
	}
	return player, defaultArgs[filepath.Base(player)]
}

// execPlayer is a single player process
type execPlayer struct {
	path string
	args []string

	mu       sync.Mutex
	cmd      *exec.Cmd
	done     chan struct{}
	released bool
}

func (p *execPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return errors.New("player released")
	}
	if p.cmd != nil {
		return nil
	}

	cmd := exec.Command(p.path, p.args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.path, err)
	}
	p.cmd = cmd
	go func() {
		_ = cmd.Wait()
		p.mu.Lock()
		p.closeDone()
		p.mu.Unlock()
	}()
	return nil
}

func (p *execPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	return suspend(p.cmd.Process)
}

func (p *execPlayer) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	return resume(p.cmd.Process)
}

func (p *execPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	// a stopped process must be continued before it can handle the kill
	_ = resume(p.cmd.Process)
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, errProcessDone) {
		return err
	}
	return nil
}

func (p *execPlayer) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released = true
	p.closeDone()
	return nil
}

func (p *execPlayer) Done() <-chan struct{} {
	return p.done
}

// closeDone must be called with mu held
func (p *execPlayer) closeDone() {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
}
