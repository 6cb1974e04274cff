// Package demucs invokes the Demucs separation tool as a subprocess.
//
// Demucs nests its output under <output>/<model>/<track>/; callers use the
// stems collector to locate the produced files. Model downloads are
// redirected into the shared cache via TORCH_HOME.
package demucs
