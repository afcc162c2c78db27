package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/airchive/aircheck/internal/assemble"
	"github.com/airchive/aircheck/internal/clock"
	"github.com/airchive/aircheck/internal/config"
	"github.com/airchive/aircheck/internal/cover"
	"github.com/airchive/aircheck/internal/httpx"
	ioutils "github.com/airchive/aircheck/internal/io"
	"github.com/airchive/aircheck/internal/model"
	"github.com/airchive/aircheck/internal/normalize"
	"github.com/airchive/aircheck/internal/scrape"
	"github.com/airchive/aircheck/internal/tool"
)

// Pipeline drives one show export from page URL to final artifact.
type Pipeline struct {
	client   *httpx.Client
	runner   tool.Runner
	settings *config.Settings
	log      zerolog.Logger

	// now supplies "today" for date defaulting; tests replace it.
	now func() time.Time
}

// New creates a pipeline using the given HTTP client and tool runner.
func New(client *httpx.Client, runner tool.Runner, settings *config.Settings, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		client:   client,
		runner:   runner,
		settings: settings,
		log:      log,
		now:      time.Now,
	}
}

// stage is one resumable step of the export. The artifact path doubles
// as the completion marker: when it already exists on disk the producer
// is not invoked, so an interrupted export picks up where it left off.
type stage struct {
	name     string
	artifact string
	produce  func(context.Context) error
}

// Run exports the show behind pageURL and returns its artifact paths.
func (p *Pipeline) Run(ctx context.Context, pageURL string) (*model.Artifacts, error) {
	if err := ioutils.EnsureDir(p.settings.OutputDir); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	page, err := p.client.GetString(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching show page: %w", err)
	}

	id := p.identify(pageURL, page)
	sched := p.schedule(page)
	mode := model.ParseOutputMode(p.settings.Format)
	art := model.NewArtifacts(p.settings.OutputDir, id, sched, mode)

	if ioutils.Exists(art.Final()) {
		p.log.Info().Str("artifact", art.Final()).Msg("final artifact exists, nothing to do")
		return art, nil
	}

	if err := p.runStages(ctx, p.stages(page, art, id, sched)); err != nil {
		return nil, err
	}

	if !p.settings.KeepIntermediates {
		p.cleanup(art)
	}

	p.log.Info().Str("artifact", art.Final()).Msg("export complete")
	return art, nil
}

// identify derives the show identity from the URL and page markup. A
// configured show-name override takes precedence over extraction.
func (p *Pipeline) identify(pageURL, page string) model.ShowIdentity {
	title := p.settings.ShowNameOverride
	if title == "" {
		title = scrape.ExtractShowTitle(page)
	}

	id := model.NewShowIdentity(pageURL, title)
	if id.StationName == model.UnknownStation {
		p.log.Warn().Str("url", pageURL).Msg("no station segment in URL, using sentinel")
	}
	p.log.Info().
		Str("station", id.StationName).
		Str("show", id.ShowTitleDisplay).
		Msg("show identified")
	return id
}

// schedule extracts the air date and duration and applies the duration
// precedence chain.
func (p *Pipeline) schedule(page string) model.ShowSchedule {
	res := scrape.ExtractSchedule(page, p.now())
	if res.DateDefaulted {
		p.log.Warn().Str("date", res.Schedule.AirDateISO).Msg("no air date on page, using today")
	}
	if res.DurationDefaulted {
		p.log.Warn().Str("duration", res.Schedule.DurationHMS).Msg("no air-time range on page, using default duration")
	}

	sched := res.Schedule
	duration, source := p.settings.EffectiveDuration(sched.DurationHMS)
	if source != "extracted" {
		p.log.Info().Str("duration", duration).Str("source", source).Msg("duration overridden")
	}
	sched.DurationHMS = duration

	p.log.Info().
		Str("date", sched.AirDateISO).
		Str("duration", sched.DurationHMS).
		Msg("schedule resolved")
	return sched
}

// stages builds the ordered stage table for this export.
func (p *Pipeline) stages(page string, art *model.Artifacts, id model.ShowIdentity, sched model.ShowSchedule) []stage {
	stages := []stage{
		{"download", art.RawAudio, func(ctx context.Context) error {
			return p.download(ctx, page, art, sched)
		}},
		{"normalize", art.NormalizedAudio, func(ctx context.Context) error {
			ctl := normalize.NewController(p.runner, p.log)
			return ctl.Normalize(ctx, art.RawAudio, art.NormalizedAudio)
		}},
		{"cover", art.Cover, func(ctx context.Context) error {
			return cover.NewResolver(p.log).Resolve(art, id, sched)
		}},
	}

	asm := assemble.NewAssembler(p.runner, p.log)
	if art.Mode == model.ModeVideo {
		stages = append(stages,
			stage{"describe", art.Description, func(ctx context.Context) error {
				return p.describe(ctx, page, art, id, sched)
			}},
			stage{"assemble", art.FinalVideo, func(ctx context.Context) error {
				return asm.Video(ctx, art, id, sched)
			}},
		)
	} else {
		stages = append(stages, stage{"assemble", art.FinalAudio, func(ctx context.Context) error {
			return asm.Audio(ctx, art, id, sched)
		}})
	}
	return stages
}

// runStages executes the stage table with existence-guarded skips.
func (p *Pipeline) runStages(ctx context.Context, stages []stage) error {
	for _, st := range stages {
		if ioutils.Exists(st.artifact) {
			p.log.Info().
				Str("stage", st.name).
				Str("artifact", st.artifact).
				Msg("artifact exists, skipping stage")
			continue
		}

		p.log.Info().Str("stage", st.name).Msg("running stage")
		if err := st.produce(ctx); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
	}
	return nil
}

// download resolves the audio manifest from the page and fetches the
// stream, capped at the effective duration.
func (p *Pipeline) download(ctx context.Context, page string, art *model.Artifacts, sched model.ShowSchedule) error {
	loc := scrape.NewLocator()
	if p.settings.StreamHost != "" {
		loc.StreamHost = p.settings.StreamHost
	}

	target, err := loc.Resolve(page)
	if err != nil {
		return err
	}
	p.log.Info().Str("manifest", target.ManifestURL).Msg("stream resolved")

	if info, err := p.client.InspectManifest(ctx, target.ManifestURL); err != nil {
		p.log.Warn().Err(err).Msg("manifest inspection failed")
	} else {
		p.log.Info().Stringer("manifest", info).Msg("manifest inspected")
	}

	_, err = p.runner.Run(ctx, "yt-dlp", downloadArgs(target.ManifestURL, sched.DurationHMS, art.RawAudio)...)
	return err
}

// downloadArgs builds the fetch command: audio-only extraction to the
// raw artifact, truncated at the effective duration. The tool's own
// part-file staging keeps a partial download off the artifact path the
// stage guard checks.
func downloadArgs(manifestURL, durationHMS, outPath string) []string {
	return []string{
		"--extract-audio",
		"--audio-format", "mp3",
		"--download-sections", "*00:00:00-" + durationHMS,
		"--output", outPath,
		manifestURL,
	}
}

// describe extracts the tracklist, computes chapter offsets, and writes
// the description document. An empty tracklist still yields a document;
// only the track block is omitted.
func (p *Pipeline) describe(ctx context.Context, page string, art *model.Artifacts, id model.ShowIdentity, sched model.ShowSchedule) error {
	durationSeconds, err := clock.ParseDuration(sched.DurationHMS)
	if err != nil {
		return fmt.Errorf("effective duration: %w", err)
	}

	tracks := scrape.ExtractTracklist(page)
	tracks = scrape.ApplyChapterOffsets(tracks, durationSeconds)
	if len(tracks) == 0 {
		p.log.Warn().Msg("no tracklist found on page")
	} else {
		p.log.Info().Int("tracks", len(tracks)).Msg("tracklist extracted")
	}

	doc := scrape.Description(id, sched, tracks)
	return ioutils.WriteFile(ctx, art.Description, []byte(doc))
}

// cleanup removes intermediate artifacts after a successful export.
// Losing them forfeits resumption for this show, which is why keeping
// them is the default.
func (p *Pipeline) cleanup(art *model.Artifacts) {
	for _, path := range []string{art.RawAudio, art.NormalizedAudio, art.Cover} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.log.Warn().Err(err).Str("path", path).Msg("could not remove intermediate")
		}
	}
}
