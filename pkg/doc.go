// Package pkg provides the core libraries for meshgrad mesh gradients.
//
// # Overview
//
// A mesh gradient is a background color plus up to six blobs: colored
// radial gradient sources positioned and sized in percent space. The pkg
// directory is organized by concern:
//
//  1. [gradient] - The model (blobs, store, presets, randomizer)
//  2. [compose], [proximity] - Derived views (preview style, wireframe edges)
//  3. [export], [raster], [wireframe] - Output formats
//  4. [interact] - Pointer input mapped to store mutations
//  5. [pipeline] - Orchestration (load → render all formats)
//  6. [session], [config], [watch] - Service and CLI infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	gradient.json / preset / randomizer / pointer input
//	         ↓
//	    [gradient] package (store + state)
//	         ↓
//	    [compose] / [proximity] (derived views)
//	         ↓
//	    [export] / [raster] / [wireframe]
//	         ↓
//	    CSS / inline style / SVG / PNG / DOT / JSON
//
// # Quick Start
//
//	store := gradient.NewStore()
//	store.ApplyPreset("aurora")
//	css := export.CSS(store.State(), ".hero")
//
// See the individual package docs for details.
package pkg
