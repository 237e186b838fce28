package injector

import (
	"fmt"

	"github.com/stylecast/stylecast/internal/config"
)

// clientScriptTemplate is the initialization script handed to the client
// runtime. It owns the actual <style> elements; this side only supplies ids,
// CSS text, and the refresh cadence.
const clientScriptTemplate = `(function () {
  'use strict';

  var REFRESH_MS = %d;
  var ATTR = 'data-style-id';

  function apply(styles) {
    var seen = {};
    styles.forEach(function (style) {
      seen[style.id] = true;
      var el = document.querySelector('style[' + ATTR + '="' + style.id + '"]');
      if (!el) {
        el = document.createElement('style');
        el.setAttribute(ATTR, style.id);
        document.head.appendChild(el);
      }
      if (el.textContent !== style.content) {
        el.textContent = style.content;
      }
    });
    var stale = document.querySelectorAll('style[' + ATTR + ']');
    Array.prototype.forEach.call(stale, function (el) {
      if (!seen[el.getAttribute(ATTR)]) {
        el.parentNode.removeChild(el);
      }
    });
  }

  function refresh() {
    if (window.__styleRegistry && typeof window.__styleRegistry.activeStyles === 'function') {
      apply(window.__styleRegistry.activeStyles());
    }
  }

  refresh();
  if (REFRESH_MS > 0) {
    setInterval(refresh, REFRESH_MS);
  }
})();
`

// ClientScript renders the bundled initialization script with the refresh
// interval taken from configuration. A nil config disables periodic refresh.
func ClientScript(cfg *config.Config) string {
	var refreshMillis int64
	if cfg != nil {
		refreshMillis = cfg.Injector.ClientRefresh().Milliseconds()
	}
	return fmt.Sprintf(clientScriptTemplate, refreshMillis)
}
