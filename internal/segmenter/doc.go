// Package segmenter splits extracted document text into paragraphs.
//
// Three interchangeable strategies are provided: break-based splitting,
// length-threshold accumulation, and title-based sectioning. Heading
// detection follows a small fixed grammar (numeric, lettered, roman and
// all-caps headings). Segmentation is a pure function of its input and
// configuration: identical text always yields identical paragraphs, in
// source order.
package segmenter
