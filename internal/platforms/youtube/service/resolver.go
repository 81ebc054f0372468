package service

import (
	"context"
	"errors"
	"fmt"

	"channel-catalog/internal/logging"
	"channel-catalog/internal/platforms/youtube/api"
)

// DefaultSearchMaxResults is the number of search hits requested when input
// cannot be mapped to a channel ID directly.
const DefaultSearchMaxResults = 10

// Resolution is the outcome of a successful cascade: either one channel or
// several candidates the caller has to choose from.
type Resolution struct {
	Channel    *Channel
	Candidates []CandidateChannel
}

// HandleLookup maps an @handle onto a channel ID.
type HandleLookup interface {
	LookupHandle(ctx context.Context, handle string) (string, error)
}

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	API    api.Client
	Logger logging.Logger
	// SearchMaxResults is raised to DefaultSearchMaxResults when lower.
	SearchMaxResults int64
	// HandlePage is consulted after the API handle lookup, before search.
	HandlePage HandleLookup
}

// Resolver turns ambiguous user input into a channel, preferring the
// cheapest remote path that can answer.
type Resolver struct {
	channels   ChannelService
	api        api.Client
	logger     logging.Logger
	maxResults int64
	steps      []step
}

// NewResolver builds the strategy chain: direct ID, handle lookups, search,
// then detail fetch.
func NewResolver(opts ResolverOptions) *Resolver {
	maxResults := opts.SearchMaxResults
	if maxResults < DefaultSearchMaxResults {
		maxResults = DefaultSearchMaxResults
	}
	if maxResults > api.MaxPageSize {
		maxResults = api.MaxPageSize
	}

	r := &Resolver{
		channels:   ChannelService{API: opts.API},
		api:        opts.API,
		logger:     opts.Logger,
		maxResults: maxResults,
	}

	r.steps = append(r.steps, step{name: "direct-id", run: r.directID})
	r.steps = append(r.steps, r.handleStep("handle-api", apiHandleLookup{client: opts.API}))
	if opts.HandlePage != nil {
		r.steps = append(r.steps, r.handleStep("handle-page", opts.HandlePage))
	}
	r.steps = append(r.steps,
		step{name: "search", run: r.search},
		step{name: "details", run: r.details},
	)
	return r
}

type stepStatus int

const (
	stepContinue stepStatus = iota
	stepDone
	stepFailed
)

type stepResult struct {
	status     stepStatus
	resolution Resolution
	err        error
}

func proceed() stepResult { return stepResult{status: stepContinue} }

func done(res Resolution) stepResult { return stepResult{status: stepDone, resolution: res} }

func fail(err error) stepResult { return stepResult{status: stepFailed, err: err} }

// resolveState is threaded through the chain. channelID is set once a step
// derives an ID without yet fetching the channel.
type resolveState struct {
	hint      IdentifierHint
	channelID string
}

type step struct {
	name string
	run  func(ctx context.Context, st *resolveState) stepResult
}

// Resolve classifies input and runs the strategy chain until a step
// finishes or fails.
func (r *Resolver) Resolve(ctx context.Context, input string) (Resolution, error) {
	hint, err := Classify(input)
	if err != nil {
		return Resolution{}, err
	}

	st := &resolveState{hint: hint}
	for _, s := range r.steps {
		res := s.run(ctx, st)
		switch res.status {
		case stepDone:
			r.logf("resolved %s %q via %s", hint.Kind, hint.Value, s.name)
			return res.resolution, nil
		case stepFailed:
			return Resolution{}, res.err
		}
	}
	return Resolution{}, fmt.Errorf("%w: no channel matches %q", ErrNotFound, hint.Value)
}

func (r *Resolver) directID(ctx context.Context, st *resolveState) stepResult {
	id, ok := st.hint.ChannelID()
	if !ok {
		return proceed()
	}
	ch, err := r.channels.FetchChannel(ctx, id)
	switch {
	case err == nil:
		return done(Resolution{Channel: &ch})
	case errors.Is(err, ErrNotFound):
		r.logf("channel %s (%s) not found, falling back to search", id, st.hint.Kind)
		return proceed()
	default:
		return fail(err)
	}
}

func (r *Resolver) handleStep(name string, lookup HandleLookup) step {
	return step{name: name, run: func(ctx context.Context, st *resolveState) stepResult {
		if st.hint.Kind != HintHandle || st.channelID != "" {
			return proceed()
		}
		id, err := lookup.LookupHandle(ctx, st.hint.Value)
		if err != nil {
			r.logf("%s lookup for %s failed, continuing: %v", name, st.hint.Value, err)
			return proceed()
		}
		st.channelID = id
		return proceed()
	}}
}

func (r *Resolver) search(ctx context.Context, st *resolveState) stepResult {
	if st.channelID != "" {
		return proceed()
	}
	hits, err := r.api.SearchChannels(ctx, st.hint.Value, r.maxResults)
	if err != nil {
		return fail(upstreamError("search channels", err))
	}

	candidates := make([]CandidateChannel, 0, len(hits))
	for _, hit := range hits {
		if c, ok := candidateFromSearch(hit); ok {
			candidates = append(candidates, c)
		}
	}
	switch len(candidates) {
	case 0:
		return fail(fmt.Errorf("%w: no channel matches %q", ErrNotFound, st.hint.Value))
	case 1:
		st.channelID = candidates[0].ChannelID
		return proceed()
	default:
		return done(Resolution{Candidates: candidates})
	}
}

func (r *Resolver) details(ctx context.Context, st *resolveState) stepResult {
	if st.channelID == "" {
		return proceed()
	}
	ch, err := r.channels.FetchChannel(ctx, st.channelID)
	if err != nil {
		return fail(err)
	}
	return done(Resolution{Channel: &ch})
}

func (r *Resolver) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// apiHandleLookup adapts the Data API forHandle lookup to HandleLookup.
type apiHandleLookup struct {
	client api.Client
}

func (l apiHandleLookup) LookupHandle(ctx context.Context, handle string) (string, error) {
	return l.client.ChannelIDForHandle(ctx, handle)
}
