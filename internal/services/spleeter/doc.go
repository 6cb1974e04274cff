// Package spleeter invokes the Spleeter separation tool as a subprocess.
//
// The adapter holds no separation logic of its own: it maps the validated
// configuration onto a `spleeter separate` command line and surfaces
// whatever the tool reports. Model downloads land in the shared cache via
// the MODEL_PATH environment variable.
package spleeter
