// Package render turns fields and gathers into pictures: colour-mapped PNG
// images of snapshots and gathers, line plots of traces, and MJPEG movies of a
// snapshot sequence.
//
// Images map grid rows (x) to the horizontal axis and grid columns (z or time)
// downwards, so a snapshot looks like a vertical section and a gather like a
// classic shot record. Amplitudes are clipped symmetrically to ±clip and mapped
// through a diverging palette (RdBu by default), zero being the palette centre.
package render
