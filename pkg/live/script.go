package live

import "strings"

// ClientScript forwards form events over the WebSocket and applies the
// patches the server sends back. It is injected into the served page.
const ClientScript = `
<script>
(function() {
    'use strict';

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;
    var ws = null;
    var opened = false;
    var pending = null;
    var texts = {};
    var classes = {};

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(protocol + '//' + location.host + '` + WebSocketPath + `');

        ws.onopen = function() {
            reconnectDelay = 1000;
            if (opened) {
                restore();
                sync();
            }
            opened = true;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            (msg.patches || []).forEach(apply);

            switch (msg.type) {
                case 'submitted':
                    console.log('[formvalidator] submitted', msg.data);
                    document.dispatchEvent(new CustomEvent('formvalidator:submit', {detail: msg.data}));
                    break;

                case 'native-submit':
                    var form = pending || document.querySelector('form[data-vid]');
                    pending = null;
                    if (form) {
                        HTMLFormElement.prototype.submit.call(form);
                    }
                    break;

                case 'error':
                    console.error('[formvalidator]', msg.error);
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    function apply(p) {
        var el = document.querySelector('[data-vid="' + p.target + '"]');
        if (!el) {
            return;
        }
        if (p.op === 'text' && !(p.target in texts)) {
            texts[p.target] = el.textContent;
        }
        if (p.op !== 'text' && !(p.target in classes)) {
            classes[p.target] = el.className;
        }
        switch (p.op) {
            case 'text':
                el.textContent = p.value;
                break;
            case 'addClass':
                el.classList.add(p.value);
                break;
            case 'removeClass':
                el.classList.remove(p.value);
                break;
        }
    }

    // A new connection starts from the served page: undo applied patches
    // and send the current state of every field.
    function restore() {
        Object.keys(texts).forEach(function(vid) {
            var el = document.querySelector('[data-vid="' + vid + '"]');
            if (el) {
                el.textContent = texts[vid];
            }
        });
        Object.keys(classes).forEach(function(vid) {
            var el = document.querySelector('[data-vid="' + vid + '"]');
            if (el) {
                el.className = classes[vid];
            }
        });
        texts = {};
        classes = {};
    }

    function sync() {
        var fields = document.querySelectorAll('input[data-vid], select[data-vid], textarea[data-vid]');
        Array.prototype.forEach.call(fields, function(el) {
            send('` + EventSync + `', el);
        });
    }

    function send(type, el) {
        if (!ws || ws.readyState !== WebSocket.OPEN || !el.dataset || !el.dataset.vid) {
            return;
        }
        var ev = {type: type, id: el.dataset.vid};
        if ('value' in el && el.type !== 'file') {
            ev.value = el.value;
        }
        if (el.type === 'checkbox' || el.type === 'radio') {
            ev.checked = el.checked;
        }
        if (el.type === 'file' && el.files) {
            ev.files = Array.prototype.map.call(el.files, function(f) {
                return {name: f.name, size: f.size, type: f.type};
            });
        }
        ws.send(JSON.stringify(ev));
    }

    document.addEventListener('focusout', function(e) { send('blur', e.target); }, true);
    document.addEventListener('input', function(e) { send('input', e.target); }, true);
    document.addEventListener('change', function(e) { send('change', e.target); }, true);
    document.addEventListener('submit', function(e) {
        e.preventDefault();
        pending = e.target;
        send('submit', e.target);
    }, true);

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
</script>
`

// injectScript inserts ClientScript before the closing body tag, or appends
// it when the page has none.
func injectScript(page string) string {
	idx := strings.LastIndex(strings.ToLower(page), "</body>")
	if idx < 0 {
		return page + ClientScript
	}
	return page[:idx] + ClientScript + page[idx:]
}
