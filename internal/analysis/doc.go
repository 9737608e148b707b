// Package analysis provides spectral statistics for frequency-domain
// responses.
//
//   - [Moment], [StdDev], [SignificantAmplitude]: spectral moments and the
//     statistics derived from them
//   - [Peak]: the dominant frequency of a spectrum or RAO magnitude
//   - [TimeSeries]: a random-phase time history via [FFT]
//
// # Example
//
//	resp := analysis.ResponseSpectrum(rao, waveSpectrum)
//	sigma := analysis.StdDev(w, resp)
package analysis
