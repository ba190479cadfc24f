// Package pkg provides the core libraries for trackstack genome-browser figures.
//
// # Overview
//
// Trackstack plots genomic regions as stacked horizontal tracks: an
// interaction-matrix heatmap on top, signal coverage, gene models and
// coordinate axes below it. The pkg directory is organized into four main
// areas:
//
//  1. [genome], [windows], [matrix] - Domain types (regions, window indices,
//     interaction matrices and the heatmap projection pipeline)
//  2. [store] - Matrix store backends (dense my5c text, compressed binary
//     bundles, sparse SQLite) plus signal and gene file readers
//  3. [track], [layout], [browser] - Figure assembly (track contract,
//     two-phase layout negotiation, plot composition)
//  4. [config], [render] - TOML configuration and SVG/PNG/PDF output
//
// # Architecture
//
// The typical data flow through trackstack:
//
//	TOML config + region string
//	         ↓
//	    [config] package (registries → browser + tracks)
//	         ↓
//	    [store] package (fetch interaction matrices, signal, genes)
//	         ↓
//	    [matrix] package (diagonal removal, clipping, 45° rotation)
//	         ↓
//	    [browser] + [render/svg] (layout, fragments, final document)
//	         ↓
//	    SVG/PDF/PNG output
//
// # Quick Start
//
//	b, err := config.Load("browser.toml", config.DefaultTracks(), config.DefaultStores())
//	if err != nil {
//	    return err
//	}
//	region, err := genome.ParseRegion("chr1:3000000-4000000")
//	if err != nil {
//	    return err
//	}
//	plot, err := b.Plot(region)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("figure.svg", plot.SVG(), 0o644)
package pkg
