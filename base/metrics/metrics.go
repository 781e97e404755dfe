/*Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Warning: *.warn
*/
package metrics

import (
	"strings"

	"github.com/x-xyz/marketplace/base/env"
	"github.com/x-xyz/marketplace/base/log"
)

const (
	// TagValueNA is used for tags whose values are not available.
	TagValueNA = "n/a"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// Option is functional parameter for metrics option
type Option func(*opt)

type opt struct {
	// default: true
	withPodName bool
}

// WithoutPodName drops the pod tag. Pod names produce a lot of custom metrics,
// use it when grouping by pod is useless.
func WithoutPodName() Option {
	return func(o *opt) {
		o.withPodName = false
	}
}

// New creates a datadog backed metric client with pkgName as key prefix
func New(pkgName string, options ...Option) Service {
	o := opt{
		withPodName: true,
	}
	for _, option := range options {
		option(&o)
	}

	// "host:" removes the host tag datadog attaches by default
	ddTags := []string{
		"host:",
		"env:" + env.EnvName(),
		"app:" + env.AppName(),
	}
	if o.withPodName {
		ddTags = append(ddTags, "pod:"+env.PodName())
	}

	return &Metrics{
		pkgName: pkgName,
		datadog: DDMetrics{ddTags: ddTags},
	}
}

// Metrics prefixes keys with the package name and guards every bump against
// panics so metrics never take a request down.
type Metrics struct {
	pkgName string
	datadog DDMetrics
}

func (mt *Metrics) recoverBump(key string, tags []string) {
	if err := recover(); err != nil {
		log.Log().WithFields(log.Fields{
			"err":  err,
			"key":  mt.pkgName + "." + key,
			"tags": strings.Join(tags, "#"),
		}).Error("metric bump panic")
	}
}

// BumpAvg bumps the average for the given key.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.recoverBump(key, tags)
	mt.datadog.BumpAvg(mt.pkgName+"."+key, val, 1, tags...)
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.recoverBump(key, tags)
	mt.datadog.BumpSum(mt.pkgName+"."+key, val, 1, tags...)
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.recoverBump(key, tags)
	mt.datadog.BumpHistogram(mt.pkgName+"."+key, val, 1, tags...)
}

// BumpTime starts a timer, call End() on the result to record it:
//
//     defer s.BumpTime("my.function").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	defer mt.recoverBump(key, tags)
	return mt.datadog.BumpTime(mt.pkgName+"."+key, 1, tags...)
}

// NewNop returns a Service dropping every metric
func NewNop() Service {
	return nop{}
}

type nop struct{}

func (nop) BumpAvg(string, float64, ...string)       {}
func (nop) BumpSum(string, float64, ...string)       {}
func (nop) BumpHistogram(string, float64, ...string) {}
func (nop) BumpTime(string, ...string) Ender         { return nopEnder{} }

type nopEnder struct{}

func (nopEnder) End() {}
