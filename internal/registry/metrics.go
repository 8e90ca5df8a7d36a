// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ironcore-dev/metal-hca/internal/api/registry"
)

// inventoryCollector exports the registered inventories. Values are computed
// from the store on every scrape.
type inventoryCollector struct {
	store         *sync.Map
	registrations prometheus.Counter
	systemsDesc   *prometheus.Desc
	cardsDesc     *prometheus.Desc
	portDesc      *prometheus.Desc
}

func newInventoryCollector(store *sync.Map) *inventoryCollector {
	return &inventoryCollector{
		store: store,
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hca_registry_registrations_total",
			Help: "Total number of accepted inventory registrations",
		}),
		systemsDesc: prometheus.NewDesc(
			"hca_registry_systems",
			"Number of systems with a registered inventory",
			nil,
			nil,
		),
		cardsDesc: prometheus.NewDesc(
			"hca_registry_cards",
			"Number of adapter cards registered per system",
			[]string{"system_uuid"},
			nil,
		),
		portDesc: prometheus.NewDesc(
			"hca_registry_port_info",
			"Registered adapter ports, always 1",
			[]string{"system_uuid", "subsystem_id", "device", "port", "link_type", "state", "physical_state"},
			nil,
		),
	}
}

// Describe and Collect implement the prometheus.Collector interface.
func (c *inventoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.systemsDesc
	ch <- c.cardsDesc
	ch <- c.portDesc
	c.registrations.Describe(ch)
}

func (c *inventoryCollector) Collect(ch chan<- prometheus.Metric) {
	c.registrations.Collect(ch)

	systems := 0
	c.store.Range(func(key, value any) bool {
		uuid, ok := key.(string)
		if !ok {
			return true
		}
		server, ok := value.(registry.Server)
		if !ok {
			return true
		}
		systems++
		ch <- prometheus.MustNewConstMetric(c.cardsDesc, prometheus.GaugeValue, float64(len(server.HCAs)), uuid)
		for _, card := range server.HCAs {
			for _, device := range card.Devices {
				for _, port := range device.Ports {
					ch <- prometheus.MustNewConstMetric(
						c.portDesc,
						prometheus.GaugeValue,
						1,
						uuid,
						card.SubsystemID,
						device.Name,
						strconv.Itoa(int(port.Number)),
						string(port.LinkType),
						string(port.State),
						string(port.PhysicalState),
					)
				}
			}
		}
		return true
	})
	ch <- prometheus.MustNewConstMetric(c.systemsDesc, prometheus.GaugeValue, float64(systems))
}
