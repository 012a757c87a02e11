package keeper

import (
	"math/big"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	"github.com/hashicorp/go-metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// SwapMetrics holds the Prometheus metrics of the interchain swap module
type SwapMetrics struct {
	// Packet lifecycle
	PacketsSent     *prometheus.CounterVec
	PacketsReceived *prometheus.CounterVec
	PacketAcks      *prometheus.CounterVec
	PacketTimeouts  *prometheus.CounterVec
	Refunds         *prometheus.CounterVec

	// Failures by class
	Errors *prometheus.CounterVec

	// Pool activity
	SwapVolume     *prometheus.CounterVec
	SharesMinted   *prometheus.CounterVec
	PoolsActivated prometheus.Counter
}

var (
	swapMetricsOnce sync.Once
	swapMetrics     *SwapMetrics
)

// NewSwapMetrics creates and registers the module metrics (singleton pattern)
func NewSwapMetrics() *SwapMetrics {
	swapMetricsOnce.Do(func() {
		swapMetrics = &SwapMetrics{
			PacketsSent: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ics101",
					Subsystem: "interchainswap",
					Name:      "packets_sent_total",
					Help:      "Total number of swap packets sent",
				},
				[]string{"type"},
			),
			PacketsReceived: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ics101",
					Subsystem: "interchainswap",
					Name:      "packets_received_total",
					Help:      "Total number of swap packets received",
				},
				[]string{"type", "result"},
			),
			PacketAcks: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ics101",
					Subsystem: "interchainswap",
					Name:      "packet_acks_total",
					Help:      "Total number of acknowledgements processed",
				},
				[]string{"type", "result"},
			),
			PacketTimeouts: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ics101",
					Subsystem: "interchainswap",
					Name:      "packet_timeouts_total",
					Help:      "Total number of swap packets that timed out",
				},
				[]string{"type"},
			),
			Refunds: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ics101",
					Subsystem: "interchainswap",
					Name:      "refunds_total",
					Help:      "Total number of escrow refunds",
				},
				[]string{"type"},
			),
			Errors: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ics101",
					Subsystem: "interchainswap",
					Name:      "errors_total",
					Help:      "Total number of failed operations by stage and error class",
				},
				[]string{"stage", "class"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ics101",
					Subsystem: "interchainswap",
					Name:      "swap_volume_total",
					Help:      "Total swapped input in base units",
				},
				[]string{"pool_id", "denom"},
			),
			SharesMinted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ics101",
					Subsystem: "interchainswap",
					Name:      "shares_minted_total",
					Help:      "Total LP shares minted in base units",
				},
				[]string{"pool_id"},
			),
			PoolsActivated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "ics101",
					Subsystem: "interchainswap",
					Name:      "pools_activated_total",
					Help:      "Total number of pools that became active",
				},
			),
		}
	})
	return swapMetrics
}

// recordError counts a failed operation in both Prometheus and the SDK telemetry sink
func (m *SwapMetrics) recordError(stage string, msgType types.SwapMessageType, err error) {
	if m == nil || err == nil {
		return
	}
	class := string(types.Classify(err))
	m.Errors.WithLabelValues(stage, class).Inc()

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "error"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("stage", stage),
			telemetry.NewLabel("type", msgType.String()),
			telemetry.NewLabel("class", class),
		},
	)
}

// toFloat converts a token amount for a metric sample. Precision loss is acceptable there.
func toFloat(amount sdkmath.Int) float64 {
	if amount.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(amount.BigInt()).Float64()
	return f
}
