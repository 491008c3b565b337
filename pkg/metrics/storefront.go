package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart, enquiry and toast activity.
type StorefrontMetrics struct {
	cartMutations *prometheus.CounterVec
	enquiries     *prometheus.CounterVec
	toasts        *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	enquiries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enquiry_submissions_total",
		Help: "Enquiry submissions handed to the collector, by outcome.",
	}, []string{"outcome"})
	toasts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toasts_shown_total",
		Help: "Toasts pushed to the notifier queue, by severity.",
	}, []string{"severity"})
	reg.MustRegister(cartMutations, enquiries, toasts)
	return &StorefrontMetrics{
		cartMutations: cartMutations,
		enquiries:     enquiries,
		toasts:        toasts,
	}
}

// IncCartMutation increments the mutation counter for the named operation.
func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncEnquiry increments the submission counter for the given outcome.
func (m *StorefrontMetrics) IncEnquiry(outcome string) {
	if m == nil || m.enquiries == nil {
		return
	}
	m.enquiries.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncToast increments the toast counter for the given severity.
func (m *StorefrontMetrics) IncToast(severity string) {
	if m == nil || m.toasts == nil {
		return
	}
	m.toasts.WithLabelValues(normalizeLabel(severity)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
