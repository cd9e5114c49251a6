// Package main demonstrates a full sync session between two viewer state
// trees: handshake, slot registration, change notifications, a snapshot
// applied to a fresh peer, sparse patches, and a rejected value.
package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-drift/statesync/pkg/bridge"
	"github.com/go-drift/statesync/pkg/colormap"
	"github.com/go-drift/statesync/pkg/ref"
)

func main() {
	// Each peer advertises its protocol version before exchanging records.
	hello := bridge.NewHandshake()
	wire, err := json.Marshal(hello)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("handshake %s (accepts v1.0.0 peer: %v)\n", wire, bridge.Compatible("v1.0.0"))

	// Host side: a viewer with one layer, a dataset handle, and a colormap.
	host := newViewerState()
	if err := host.Data.Set(ref.NewDataset("gaussian sample")); err != nil {
		log.Fatal(err)
	}
	if err := host.Cmap.Set(colormap.Default()); err != nil {
		log.Fatal(err)
	}
	layer := newLayerState()
	if err := layer.Color.Set("steelblue"); err != nil {
		log.Fatal(err)
	}
	host.Layers.Append(layer)

	hostSlot := bridge.NewSlot("viewer", func(c bridge.Change) {
		fmt.Printf("host: %s changed, re-serialize\n", c.Name)
	})
	if err := hostSlot.Set(host); err != nil {
		log.Fatal(err)
	}
	registry := bridge.NewRegistry()
	if err := registry.Add(hostSlot); err != nil {
		log.Fatal(err)
	}
	fmt.Println("registered slots:", registry.Names())

	// Any mutation inside the tree, including the layer, fires the slot.
	if err := host.Title.Set("sample density"); err != nil {
		log.Fatal(err)
	}
	if err := layer.Alpha.Set(0.5); err != nil {
		log.Fatal(err)
	}

	snapshot, err := hostSlot.SnapshotJSON()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("host snapshot: %s\n", snapshot)

	// Peer side: an independent replica holding its own dataset handle. The
	// snapshot carries the host handle only as an opaque marker, so applying
	// it leaves the peer's handle in place.
	peer := newViewerState()
	localData := ref.NewDataset("local copy")
	if err := peer.Data.Set(localData); err != nil {
		log.Fatal(err)
	}
	peer.Layers.Append(newLayerState())

	peerSlot := bridge.NewSlot("viewer", nil)
	if err := peerSlot.Set(peer); err != nil {
		log.Fatal(err)
	}
	if _, err := peerSlot.ApplyJSON(snapshot); err != nil {
		log.Fatal(err)
	}
	first := peer.Layers.At(0).(*layerState)
	fmt.Printf("peer: title=%q bins=%d layer color=%s alpha=%v\n",
		peer.Title.Get(), peer.Bins.Get(), first.Color.Get(), first.Alpha.Get())
	fmt.Println("peer kept its local dataset handle:", peer.Data.Get() == localData)

	// The colormap travels by name; the peer resolves it from its registry.
	if name, ok := peer.Cmap.Get().(string); ok {
		cm, found := colormap.Get(name)
		if !found {
			log.Fatalf("unknown colormap %q", name)
		}
		fmt.Printf("peer colormap %s, midpoint %s\n", cm.Name(), cm.At(0.5).Hex())
	}

	// A sparse patch touches only the keys it carries. "0" addresses the
	// first layer in place, so its identity and alpha survive.
	patch := []byte(`{"layers":{"0":{"color":"tomato"}},"x_min":-5}`)
	if _, err := peerSlot.ApplyJSON(patch); err != nil {
		log.Fatal(err)
	}
	same := peer.Layers.At(0).(*layerState) == first
	fmt.Printf("peer after patch: x_min=%v layer color=%s alpha=%v same layer=%v\n",
		peer.XMin.Get(), first.Color.Get(), first.Alpha.Get(), same)

	// x_max applies before bins because axis limits carry a higher update
	// priority, so the valid half of this record lands before the bad half
	// is rejected. Nothing is rolled back.
	bad := []byte(`{"bins":0,"x_max":100}`)
	if _, err := peerSlot.ApplyJSON(bad); err != nil {
		fmt.Println("patch rejected:", err)
	}
	fmt.Printf("peer keeps bins=%d, x_max=%v\n", peer.Bins.Get(), peer.XMax.Get())
}
