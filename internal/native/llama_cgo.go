//go:build llama

package native

// cgo link directives for the in-process llama runtime.
//   - rpath of $ORIGIN so the loader finds libllama.so next to the binary (./bin).
//   - -L${SRCDIR}/../../bin so the linker finds libllama.so at link time.
//
// The log hook below mirrors llama_log_set from llama.h with the level enum
// passed as int.

/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
#include <stddef.h>

typedef void (*lxllama_log_cb)(int level, const char *text, void *user_data);
void llama_log_set(lxllama_log_cb log_callback, void *user_data);

static void lxllama_noop_log(int level, const char *text, void *user_data) {
	(void)level;
	(void)text;
	(void)user_data;
}

static void lxllama_silence(void) {
	llama_log_set(lxllama_noop_log, NULL);
}
*/
import "C"

import "sync"

var silenceOnce sync.Once

// SilenceLogs installs a process-wide no-op llama.cpp log callback. It is
// best effort: ggml backends that print directly to stderr are unaffected, so
// some output still gets through.
func SilenceLogs() {
	silenceOnce.Do(func() { C.lxllama_silence() })
}
