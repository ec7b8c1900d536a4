package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Sample is one training example: a window of scaled closes and the scaled
// close that follows it.
type Sample struct {
	Window []float64
	Target float64
}

// History records the mean squared error of every training epoch.
type History struct {
	EpochLoss []float64
}

// FinalLoss returns the loss of the last epoch, or NaN if nothing was trained.
func (h History) FinalLoss() float64 {
	if len(h.EpochLoss) == 0 {
		return math.NaN()
	}
	return h.EpochLoss[len(h.EpochLoss)-1]
}

// EpochFunc is called after every epoch with its 1-based number and loss.
type EpochFunc func(epoch int, loss float64)

// Fit trains the network on samples for Config.Epochs passes. Samples are
// shuffled each epoch and dropout masks drawn from rng, so identical inputs
// and seeds reproduce identical weights.
func (n *Network) Fit(ctx context.Context, samples []Sample, rng *rand.Rand, onEpoch EpochFunc) (History, error) {
	if rng == nil {
		return History{}, errors.New("random source is required")
	}
	if len(samples) == 0 {
		return History{}, errors.New("no training samples")
	}
	for i, s := range samples {
		if len(s.Window) != n.Config.WindowSize {
			return History{}, fmt.Errorf("sample %d has window length %d, want %d", i, len(s.Window), n.Config.WindowSize)
		}
	}

	params := n.params()
	grads := zerosLike(params)
	opt := newAdam(n.Config.LearningRate, params)
	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}

	var history History
	for epoch := 1; epoch <= n.Config.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		sumSquared := 0.0
		for start := 0; start < len(order); start += n.Config.BatchSize {
			if err := ctx.Err(); err != nil {
				return history, err
			}
			end := min(start+n.Config.BatchSize, len(order))
			sumSquared += n.trainBatch(order[start:end], samples, rng, grads)
			opt.step(params, grads)
		}

		loss := sumSquared / float64(len(samples))
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return history, fmt.Errorf("training diverged at epoch %d", epoch)
		}
		history.EpochLoss = append(history.EpochLoss, loss)
		if onEpoch != nil {
			onEpoch(epoch, loss)
		}
	}
	return history, nil
}

// trainBatch fills grads with the batch-mean MSE gradient and returns the
// batch's summed squared error.
func (n *Network) trainBatch(batch []int, samples []Sample, rng *rand.Rand, grads [][]float64) float64 {
	resetGrads(grads)
	scale := 2 / float64(len(batch))
	sumSquared := 0.0
	for _, idx := range batch {
		s := samples[idx]
		masks := n.newMasks(rng, len(s.Window))
		pred, cache := n.forward(s.Window, masks)
		diff := pred - s.Target
		sumSquared += diff * diff
		n.backward(cache, masks, scale*diff, grads)
	}
	return sumSquared
}
