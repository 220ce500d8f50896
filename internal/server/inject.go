package server

import "bytes"

// reloadClient reconnects after server restarts and reloads on "reload".
const reloadClient = `<script>
(() => {
  const url = (location.protocol === "https:" ? "wss://" : "ws://") + location.host + "` + ReloadPath + `";
  const connect = () => {
    const ws = new WebSocket(url);
    ws.onmessage = (e) => {
      try {
        if (JSON.parse(e.data).type === "reload") location.reload();
      } catch (_) {}
    };
    ws.onclose = () => setTimeout(connect, 1000);
  };
  connect();
})();
</script>
`

// InjectReloadClient inserts the live reload client before the last closing
// body tag, or appends it when the page has none. The page on disk is never
// modified.
func InjectReloadClient(page []byte) []byte {
	idx := lastIndexFold(page, []byte("</body>"))
	if idx < 0 {
		out := make([]byte, 0, len(page)+len(reloadClient))
		out = append(out, page...)
		return append(out, reloadClient...)
	}

	out := make([]byte, 0, len(page)+len(reloadClient))
	out = append(out, page[:idx]...)
	out = append(out, reloadClient...)
	return append(out, page[idx:]...)
}

func lastIndexFold(s, sub []byte) int {
	for i := len(s) - len(sub); i >= 0; i-- {
		if bytes.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
