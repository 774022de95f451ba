// Package policy holds the static category configuration shared by the
// detection refiner and the result normalizer: label priorities, semantic
// label groups, merge thresholds and the keyword tables used to classify
// search results.
//
// A Policy is immutable once built. Default returns a fresh value on every
// call, and the With* methods return modified copies, so independent
// components (and parallel tests) never share mutable tables.
package policy

import (
	"maps"
	"slices"
	"sort"
)

// Detector label vocabulary.
const (
	LabelShirt    = "shirt, blouse"
	LabelTop      = "top, t-shirt, sweatshirt"
	LabelSweater  = "sweater"
	LabelCardigan = "cardigan"
	LabelJacket   = "jacket"
	LabelVest     = "vest"
	LabelCoat     = "coat"
	LabelDress    = "dress"
	LabelJumpsuit = "jumpsuit"
	LabelCape     = "cape"
	LabelPants    = "pants"
	LabelShorts   = "shorts"
	LabelSkirt    = "skirt"
	LabelShoe     = "shoe"
	LabelBag      = "bag, wallet"
	LabelGlasses  = "glasses"
	LabelHat      = "hat"
	LabelHeadband = "headband, head covering, hair accessory"
	LabelScarf    = "scarf"
)

// Group names a semantic set of labels.
type Group string

const (
	GroupOuterwear   Group = "outerwear"
	GroupAccessories Group = "accessories"
	GroupUpperBody   Group = "upper_body"
	GroupLowerBody   Group = "lower_body"
	GroupHeadwear    Group = "headwear"
	// GroupHeadContext are the labels that make a headwear detection plausible.
	GroupHeadContext Group = "head_context"
	// GroupLongOuter are the labels that can hide pants when they reach low in the frame.
	GroupLongOuter Group = "long_outer"
	// GroupCoatLike are merged with each other when they overlap.
	GroupCoatLike Group = "coat_like"
)

// Result categories.
const (
	CategoryBottoms     = "bottoms"
	CategoryDresses     = "dresses"
	CategoryTops        = "tops"
	CategoryOuterwear   = "outerwear"
	CategoryShoes       = "shoes"
	CategoryBags        = "bags"
	CategoryAccessories = "accessories"
	CategoryHeadwear    = "headwear"
)

// MergeThresholds control when two upper-body detections are the same garment.
type MergeThresholds struct {
	IoU                float64 `json:"iou"`
	Overlap            float64 `json:"overlap"`
	CenterDistFraction float64 `json:"center_dist_fraction"`
}

// BrandHint maps a brand substring to the category it usually sells.
type BrandHint struct {
	Brand    string
	Category string
}

// RelevanceHints is exported to clients so they can pre-filter search results.
type RelevanceHints struct {
	BannedTerms      []string            `json:"banned_terms"`
	CategoryKeywords map[string][]string `json:"category_keywords"`
}

// Policy is the immutable category configuration.
type Policy struct {
	priority         map[string]int
	groups           map[Group]map[string]struct{}
	merge            MergeThresholds
	categoryOrder    []string
	categoryKeywords map[string][]string
	brandHints       []BrandHint
	stopWords        map[string]struct{}
	relevanceBanned  []string
	garmentKeywords  []string
	styleHints       []string
	hintBannedTerms  []string
	labelKeywords    map[string][]string
}

// Priority returns the label's priority weight, 0 for unknown or unweighted labels.
func (p *Policy) Priority(label string) int {
	return p.priority[label]
}

// Accepts reports whether label is part of the accepted vocabulary.
func (p *Policy) Accepts(label string) bool {
	_, ok := p.priority[label]
	return ok
}

// In reports whether label belongs to group.
func (p *Policy) In(group Group, label string) bool {
	_, ok := p.groups[group][label]
	return ok
}

// Labels returns the accepted vocabulary, sorted.
func (p *Policy) Labels() []string {
	labels := slices.Collect(maps.Keys(p.priority))
	sort.Strings(labels)
	return labels
}

// MergeThresholds returns the upper-body merge thresholds.
func (p *Policy) MergeThresholds() MergeThresholds {
	return p.merge
}

// CategoryOrder returns the result categories in tie-break priority order.
func (p *Policy) CategoryOrder() []string {
	return slices.Clone(p.categoryOrder)
}

// CategoryKeywords returns the keywords that vote for category.
func (p *Policy) CategoryKeywords(category string) []string {
	return slices.Clone(p.categoryKeywords[category])
}

// BrandHints returns the brand hint table in evaluation order.
func (p *Policy) BrandHints() []BrandHint {
	return slices.Clone(p.brandHints)
}

// IsStopWord reports whether w (lowercase) is too generic to be a brand.
func (p *Policy) IsStopWord(w string) bool {
	_, ok := p.stopWords[w]
	return ok
}

// RelevanceBannedTerms returns title terms that mark a hit as non-fashion.
func (p *Policy) RelevanceBannedTerms() []string { return slices.Clone(p.relevanceBanned) }

// GarmentKeywords returns title terms that mark a hit as fashion.
func (p *Policy) GarmentKeywords() []string { return slices.Clone(p.garmentKeywords) }

// StyleHints returns style terms that make an otherwise ambiguous title relevant.
func (p *Policy) StyleHints() []string { return slices.Clone(p.styleHints) }

// RelevanceHints returns the banned terms and per-label search keywords.
func (p *Policy) RelevanceHints() RelevanceHints {
	banned := slices.Clone(p.hintBannedTerms)
	sort.Strings(banned)
	kw := make(map[string][]string, len(p.labelKeywords))
	for label, words := range p.labelKeywords {
		w := slices.Clone(words)
		sort.Strings(w)
		kw[label] = w
	}
	return RelevanceHints{BannedTerms: banned, CategoryKeywords: kw}
}

// WithPriority returns a copy of p with label's priority set. Setting a
// priority for an unknown label adds it to the accepted vocabulary.
func (p *Policy) WithPriority(label string, priority int) *Policy {
	c := p.clone()
	c.priority[label] = priority
	return c
}

// WithGroup returns a copy of p with label added to group.
func (p *Policy) WithGroup(group Group, label string) *Policy {
	c := p.clone()
	if c.groups[group] == nil {
		c.groups[group] = map[string]struct{}{}
	}
	c.groups[group][label] = struct{}{}
	return c
}

// WithMergeThresholds returns a copy of p using m for upper-body merges.
func (p *Policy) WithMergeThresholds(m MergeThresholds) *Policy {
	c := p.clone()
	c.merge = m
	return c
}

func (p *Policy) clone() *Policy {
	c := *p
	c.priority = maps.Clone(p.priority)
	c.groups = make(map[Group]map[string]struct{}, len(p.groups))
	for g, set := range p.groups {
		c.groups[g] = maps.Clone(set)
	}
	return &c
}

func set(items ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}
