package embed

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Train builds a vocabulary from sentences and learns skip-gram vectors with
// negative sampling. Tokens seen fewer than cfg.MinCount times are left out of
// the model. Each epoch splits the sentences across cfg.Workers goroutines;
// every worker trains a private copy of the weights and the per-worker changes
// are summed back once the epoch ends.
func Train(ctx context.Context, sentences [][]string, cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	v := buildVocab(sentences, cfg.MinCount)
	if v.size() == 0 {
		return newModel(v, nil, cfg.Dim), nil
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	t := &trainer{
		cfg:    cfg,
		dim:    cfg.Dim,
		vocab:  v,
		corpus: v.encode(sentences),
		keep:   v.keepProbs(cfg.Sample),
		noise:  v.noiseCDF(),
		syn0:   make([]float32, v.size()*cfg.Dim),
		syn1:   make([]float32, v.size()*cfg.Dim),
		seed:   seed,
	}

	r := rand.New(rand.NewPCG(seed, 0))
	for i := range t.syn0 {
		t.syn0[i] = (r.Float32() - 0.5) / float32(cfg.Dim)
	}

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		if err := t.epoch(ctx, epoch); err != nil {
			return nil, err
		}
	}

	return newModel(v, t.syn0, cfg.Dim), nil
}

type trainer struct {
	cfg    Config
	dim    int
	vocab  *vocab
	corpus [][]int32
	keep   []float64
	noise  []float64
	seed   uint64

	syn0 []float32 // input vectors, the embeddings
	syn1 []float32 // output vectors for negative sampling
}

// shard is one worker's slice of an epoch.
type shard struct {
	id        int
	sentences [][]int32
	words     int
}

func (t *trainer) shards() []shard {
	n := t.cfg.workers()
	if n > len(t.corpus) {
		n = len(t.corpus)
	}
	out := make([]shard, n)
	for i := range out {
		out[i].id = i
	}
	for i, s := range t.corpus {
		sh := &out[i%n]
		sh.sentences = append(sh.sentences, s)
		sh.words += len(s)
	}
	return out
}

func (t *trainer) epoch(ctx context.Context, epoch int) error {
	shards := t.shards()

	if len(shards) == 1 {
		return t.run(ctx, shards[0], epoch, t.syn0, t.syn1)
	}

	locals0 := make([][]float32, len(shards))
	locals1 := make([][]float32, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	for i, sh := range shards {
		locals0[i] = append([]float32(nil), t.syn0...)
		locals1[i] = append([]float32(nil), t.syn1...)
		g.Go(func() error {
			return t.run(gctx, sh, epoch, locals0[i], locals1[i])
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	merge(t.syn0, locals0)
	merge(t.syn1, locals1)
	return nil
}

// merge adds every local copy's change relative to shared back into shared.
func merge(shared []float32, locals [][]float32) {
	for j := range shared {
		base := shared[j]
		sum := base
		for _, l := range locals {
			sum += l[j] - base
		}
		shared[j] = sum
	}
}

// run trains one shard for one epoch against syn0/syn1.
func (t *trainer) run(ctx context.Context, sh shard, epoch int, syn0, syn1 []float32) error {
	rng := rand.New(rand.NewPCG(t.seed, uint64(epoch)<<32|uint64(sh.id)+1))
	neu1e := make([]float32, t.dim)
	sent := make([]int32, 0, 64)
	done := 0

	for _, s := range sh.sentences {
		if err := ctx.Err(); err != nil {
			return err
		}

		progress := (float64(epoch) + float64(done)/float64(sh.words)) / float64(t.cfg.Epochs)
		alpha := float32(math.Max(t.cfg.Alpha-(t.cfg.Alpha-t.cfg.MinAlpha)*progress, t.cfg.MinAlpha))
		done += len(s)

		sent = sent[:0]
		for _, w := range s {
			if t.keep[w] < 1 && t.keep[w] < rng.Float64() {
				continue
			}
			sent = append(sent, w)
		}

		for pos, word := range sent {
			b := rng.IntN(t.cfg.Window)
			for c := pos - t.cfg.Window + b; c <= pos+t.cfg.Window-b; c++ {
				if c == pos || c < 0 || c >= len(sent) {
					continue
				}
				t.pair(syn0, syn1, sent[c], word, alpha, rng, neu1e)
			}
		}
	}
	return nil
}

// pair performs one skip-gram update: the context token's vector is trained to
// predict word against cfg.Negative noise tokens.
func (t *trainer) pair(syn0, syn1 []float32, ctxWord, word int32, alpha float32, rng *rand.Rand, neu1e []float32) {
	dim := t.dim
	in := syn0[int(ctxWord)*dim : int(ctxWord)*dim+dim]
	clear(neu1e)

	for d := 0; d <= t.cfg.Negative; d++ {
		target := word
		label := float32(1)
		if d > 0 {
			target = t.drawNoise(rng)
			if target == word {
				continue
			}
			label = 0
		}
		out := syn1[int(target)*dim : int(target)*dim+dim]

		g := (label - sigmoid(dot(in, out))) * alpha
		for i := range neu1e {
			neu1e[i] += g * out[i]
		}
		for i := range out {
			out[i] += g * in[i]
		}
	}
	for i := range in {
		in[i] += neu1e[i]
	}
}

func (t *trainer) drawNoise(rng *rand.Rand) int32 {
	i := sort.SearchFloat64s(t.noise, rng.Float64())
	if i >= len(t.noise) {
		i = len(t.noise) - 1
	}
	return int32(i)
}

const maxExp = 6

func sigmoid(x float32) float32 {
	switch {
	case x > maxExp:
		return 1
	case x < -maxExp:
		return 0
	}
	return float32(1 / (1 + math.Exp(-float64(x))))
}

func dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
