package codegen

import (
	"fmt"
	"strings"

	"github.com/tova-lang/tova/internal/ast"
)

// EmitShared renders a `shared [name] { ... }` block: plain functions,
// type/trait declarations (erased, contribute no runtime code), and ADT
// definitions, which get a small runtime footprint of tagged-variant
// constructor functions (spec §4.4 "Shared emitter").
func (c *Context) EmitShared(name string, body []ast.Stmt) string {
	label := name
	if label == "" {
		label = "default"
	}
	c.write(fmt.Sprintf("// shared %q — generated, do not edit by hand\n\n", label))

	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.TypeDecl:
			if len(s.Variants) > 0 {
				c.write(c.emitADTConstructors(s))
				c.write("\n\n")
			}
		default:
			if out := c.EmitStmt(stmt, false); out != "" {
				c.write(out + "\n\n")
			}
		}
	}

	return c.withHelperPreamble()
}

// withHelperPreamble prepends the bodies of every runtime helper this
// emitter call referenced (spec §4.4 "includes only referenced helpers")
// to the buffered output. Must run after every useHelper call the body
// could make, so callers invoke it last, once, right before returning.
func (c *Context) withHelperPreamble() string {
	body := c.String()
	preamble := c.HelperPreamble()
	if preamble == "" {
		return body
	}
	return preamble + "\n\n" + body
}

// EmitData renders a `data Name { field: Type... row... }` block as a
// frozen array of plain row objects (spec §3.2 "Data block": static/seed
// data, available to both server and client since it lives in the shared
// output category).
func (c *Context) EmitData(block *ast.DataBlock) string {
	label := block.Name
	if label == "" {
		label = "default"
	}
	c.write(fmt.Sprintf("// data %q — generated, do not edit by hand\n\n", label))
	rows := make([]string, len(block.Rows))
	for i, row := range block.Rows {
		rows[i] = c.EmitExpr(row)
	}
	fmt.Fprintf(&c.sb, "export const %s = Object.freeze([\n%s\n]);\n", block.Name, indentLines(strings.Join(rows, ",\n"), 1))
	return c.withHelperPreamble()
}

// emitADTConstructors emits one factory per variant of a sum TypeDecl,
// producing plain objects tagged with `__tag` (read by emitPatternTest)
// and carrying both the declared field names and a positional `__fields`
// array, since match arms may destructure either way (`Ok(v)` or `Ok { value: v }`).
func (c *Context) emitADTConstructors(decl *ast.TypeDecl) string {
	var sb strings.Builder
	for _, v := range decl.Variants {
		if len(v.Fields) == 0 {
			fmt.Fprintf(&sb, "const %s = { __tag: %s, __fields: [] };\n", v.Name, jsStringLit(v.Name))
			continue
		}
		params := make([]string, len(v.Fields))
		props := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			params[i] = f.Name
			props[i] = f.Name
		}
		fmt.Fprintf(&sb, "function %s(%s) {\n", v.Name, strings.Join(params, ", "))
		fmt.Fprintf(&sb, "  return { __tag: %s, %s, __fields: [%s] };\n", jsStringLit(v.Name), strings.Join(props, ", "), strings.Join(params, ", "))
		sb.WriteString("}\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// HelperPreamble renders the bodies of every runtime helper the emitted
// program actually referenced (spec §4.4 "includes only referenced
// helpers"), in a fixed, stable order so golden output doesn't depend on
// map iteration. The compiler driver prepends this to the shared bundle.
func (c *Context) HelperPreamble() string {
	used := c.usedHelpers()
	if len(used) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("// runtime helpers\n")
	for _, name := range used {
		body, ok := helperBodies[name]
		if !ok {
			continue
		}
		sb.WriteString(body)
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// helperBodies holds the fixed JS source of every helper a base/server
// emitter may reference via useHelper. Kept free of template
// interpolation: each body is a literal, reviewable JS snippet.
var helperBodies = map[string]string{
	"contains": `function __contains(collection, item) {
  if (Array.isArray(collection) || typeof collection === "string") {
    return collection.includes(item);
  }
  if (collection instanceof Map || collection instanceof Set) {
    return collection.has(item);
  }
  if (collection && typeof collection === "object") {
    return Object.prototype.hasOwnProperty.call(collection, item);
  }
  return false;
}`,

	"propagate": `class __Propagated extends Error {
  constructor(value) {
    super("propagated error");
    this.value = value;
  }
}
function __propagate(result) {
  if (result && typeof result === "object" && "__tag" in result) {
    if (result.__tag === "Err") throw new __Propagated(result.__fields ? result.__fields[0] : result.error);
    if (result.__tag === "None") throw new __Propagated(undefined);
    if (result.__tag === "Ok") return result.__fields ? result.__fields[0] : result.value;
    if (result.__tag === "Some") return result.__fields ? result.__fields[0] : result.value;
  }
  return result;
}`,

	"stepSlice": `function __stepSlice(arr, start, end, step) {
  const len = arr.length;
  const s = start === undefined ? (step < 0 ? len - 1 : 0) : start < 0 ? len + start : start;
  const e = end === undefined ? (step < 0 ? -1 : len) : end < 0 ? len + end : end;
  const out = [];
  if (step > 0) {
    for (let i = s; i < e; i += step) out.push(arr[i]);
  } else if (step < 0) {
    for (let i = s; i > e; i += step) out.push(arr[i]);
  }
  return out;
}`,

	"nanSafeCoalesce": `function __nanSafeCoalesce(value, getFallback) {
  if (value === null || value === undefined) return getFallback();
  if (typeof value === "number" && Number.isNaN(value)) return getFallback();
  return value;
}`,

	"rateLimiter": `function __makeRateLimiter(limit, windowMs) {
  const hits = new Map();
  return function allow(key) {
    const now = Date.now();
    const windowStart = now - windowMs;
    const bucket = (hits.get(key) || []).filter((t) => t > windowStart);
    bucket.push(now);
    hits.set(key, bucket);
    return bucket.length <= limit;
  };
}
function __parseWindowMs(spec) {
  if (typeof spec === "number") return spec;
  const m = /^(\d+)(ms|s|m|h)$/.exec(String(spec).trim());
  if (!m) return 60000;
  const n = Number(m[1]);
  const unit = { ms: 1, s: 1000, m: 60000, h: 3600000 }[m[2]];
  return n * unit;
}`,

	// httpHelpers are the response-shaping functions route/middleware bodies
	// call directly by name (spec §4.4 "response helpers").
	"httpHelpers": `function respond(body, init) {
  return Response.json(body, init);
}
function redirect(location, status) {
  return new Response(null, { status: status || 302, headers: { Location: location } });
}
function set_cookie(response, name, value, opts) {
  const o = opts || {};
  let cookie = name + "=" + encodeURIComponent(value);
  if (o.maxAge !== undefined) cookie += "; Max-Age=" + o.maxAge;
  if (o.path) cookie += "; Path=" + o.path;
  else cookie += "; Path=/";
  if (o.httpOnly !== false) cookie += "; HttpOnly";
  if (o.secure) cookie += "; Secure";
  if (o.sameSite) cookie += "; SameSite=" + o.sameSite;
  response.headers.append("Set-Cookie", cookie);
  return response;
}
function stream(iterable, init) {
  const it = iterable[Symbol.asyncIterator] ? iterable[Symbol.asyncIterator]() : iterable[Symbol.iterator]();
  const body = new ReadableStream({
    async pull(controller) {
      const { value, done } = await it.next();
      if (done) { controller.close(); return; }
      controller.enqueue(typeof value === "string" ? new TextEncoder().encode(value) : value);
    },
  });
  return new Response(body, init);
}
function sse(iterable) {
  const it = iterable[Symbol.asyncIterator] ? iterable[Symbol.asyncIterator]() : iterable[Symbol.iterator]();
  const body = new ReadableStream({
    async pull(controller) {
      const { value, done } = await it.next();
      if (done) { controller.close(); return; }
      controller.enqueue(new TextEncoder().encode("data: " + JSON.stringify(value) + "\\n\\n"));
    },
  });
  return new Response(body, { headers: { "content-type": "text/event-stream", "cache-control": "no-cache" } });
}
function html(markup, init) {
  return new Response(markup, { ...init, headers: { "content-type": "text/html; charset=utf-8", ...(init && init.headers) } });
}
function text(body, init) {
  return new Response(body, { ...init, headers: { "content-type": "text/plain; charset=utf-8", ...(init && init.headers) } });
}
function with_headers(response, headers) {
  for (const [k, v] of Object.entries(headers)) response.headers.set(k, v);
  return response;
}`,

	// contentNegotiation picks a rendering of `data` from the client's
	// Accept header (spec §4.4 "content negotiation (HTML / XML / plain /
	// JSON)"); __handleRequest falls back to it for routes that return a
	// plain value instead of a Response.
	"contentNegotiation": `function __negotiate(req, data) {
  const accept = (req.headers.get("accept") || "").toLowerCase();
  if (accept.includes("text/html")) {
    return html("<pre>" + escapeHtml(JSON.stringify(data, null, 2)) + "</pre>");
  }
  if (accept.includes("application/xml") || accept.includes("text/xml")) {
    return new Response(__toXML("result", data), { headers: { "content-type": "application/xml" } });
  }
  if (accept.includes("text/plain")) {
    return text(typeof data === "string" ? data : JSON.stringify(data));
  }
  return Response.json(data);
}
function escapeHtml(s) {
  return s.replace(/[&<>"']/g, (c) => ({ "&": "&amp;", "<": "&lt;", ">": "&gt;", '"': "&quot;", "'": "&#39;" }[c]));
}
function __toXML(tag, value) {
  if (value === null || value === undefined) return "<" + tag + "/>";
  if (typeof value !== "object") return "<" + tag + ">" + String(value) + "</" + tag + ">";
  if (Array.isArray(value)) return value.map((v) => __toXML("item", v)).join("");
  const inner = Object.entries(value).map(([k, v]) => __toXML(k, v)).join("");
  return "<" + tag + ">" + inner + "</" + tag + ">";
}`,

	// compression wraps an outgoing Response in gzip/deflate per the
	// client's Accept-Encoding, only past a minimum body size (spec §4.4
	// "response compression ... based on Accept-Encoding and min-size
	// threshold").
	"compression": `async function __compress(req, response, minBytes) {
  const threshold = minBytes === undefined ? 1024 : minBytes;
  const acceptEncoding = req.headers.get("accept-encoding") || "";
  const buf = await response.clone().arrayBuffer();
  if (buf.byteLength < threshold || !response.body) return response;
  let encoding = null;
  if (acceptEncoding.includes("gzip")) encoding = "gzip";
  else if (acceptEncoding.includes("deflate")) encoding = "deflate";
  if (!encoding) return response;
  const compressed = new Response(buf).body.pipeThrough(new CompressionStream(encoding));
  const headers = new Headers(response.headers);
  headers.set("content-encoding", encoding);
  headers.delete("content-length");
  return new Response(compressed, { status: response.status, statusText: response.statusText, headers });
}`,

	// asyncMutex implements withLock as a FIFO queue of resolvers (spec §4.4
	// "Mutex (withLock) is a FIFO async queue of resolvers").
	"asyncMutex": `function __makeMutex() {
  let locked = false;
  const queue = [];
  return async function withLock(fn) {
    if (locked) {
      await new Promise((resolve) => queue.push(resolve));
    }
    locked = true;
    try {
      return await fn();
    } finally {
      locked = false;
      const next = queue.shift();
      if (next) next();
    }
  };
}
const withLock = __makeMutex();`,

	// requestContext threads a per-request id/start-time through
	// AsyncLocalStorage (spec §4.4 "AsyncLocalStorage-based request context
	// for distributed tracing") and backs a minimal structured logger.
	"requestContext": `const __als = new AsyncLocalStorage();
function __requestId() {
  return Math.random().toString(36).slice(2) + Date.now().toString(36);
}
function __log(level, message, meta) {
  const ctx = __als.getStore() || {};
  console.log(JSON.stringify({ level, message, requestId: ctx.requestId, time: new Date().toISOString(), ...meta }));
}`,

	// circuitBreaker is included in every server output per spec §4.4
	// "Multi-block outputs": peer servers need it to call each other
	// safely, and a server can't know at codegen time whether siblings
	// exist in the same compile.
	"circuitBreaker": `function __makeCircuitBreaker(opts) {
  const o = opts || {};
  const failureThreshold = o.failureThreshold || 5;
  const resetMs = o.resetMs || 30000;
  const maxRetries = o.maxRetries || 3;
  let failures = 0;
  let state = "closed";
  let openedAt = 0;
  return async function callPeer(fn) {
    if (state === "open") {
      if (Date.now() - openedAt < resetMs) throw new Error("circuit open");
      state = "half-open";
    }
    let lastErr;
    for (let attempt = 0; attempt <= maxRetries; attempt++) {
      try {
        const result = await fn();
        failures = 0;
        state = "closed";
        return result;
      } catch (err) {
        lastErr = err;
        failures++;
        if (failures >= failureThreshold) {
          state = "open";
          openedAt = Date.now();
        }
        if (attempt < maxRetries) {
          await new Promise((resolve) => setTimeout(resolve, 2 ** attempt * 100));
        }
      }
    }
    throw lastErr;
  };
}
const __callPeer = __makeCircuitBreaker();`,

	"parseSchedule": `function __parseSchedule(spec) {
  const parts = spec.trim().split(/\s+/);
  if (parts.length !== 5) throw new Error("invalid cron expression: " + spec);
  const [minute, hour, dom, month, dow] = parts;
  function matches(field, value, max) {
    if (field === "*") return true;
    return field.split(",").some((part) => {
      if (part.includes("/")) {
        const [range, step] = part.split("/");
        const start = range === "*" ? 0 : parseInt(range, 10);
        return value >= start && (value - start) % parseInt(step, 10) === 0;
      }
      if (part.includes("-")) {
        const [lo, hi] = part.split("-").map((n) => parseInt(n, 10));
        return value >= lo && value <= hi;
      }
      return parseInt(part, 10) === value;
    });
  }
  return function due(date) {
    return (
      matches(minute, date.getMinutes(), 59) &&
      matches(hour, date.getHours(), 23) &&
      matches(dom, date.getDate(), 31) &&
      matches(month, date.getMonth() + 1, 12) &&
      matches(dow, date.getDay(), 6)
    );
  };
}`,

	"etag": `function __etag(body) {
  const bytes = typeof body === "string" ? Buffer.from(body) : Buffer.from(body || "");
  let hash = 2166136261;
  for (let i = 0; i < bytes.length; i++) {
    hash ^= bytes[i];
    hash = Math.imul(hash, 16777619);
  }
  return '"' + (hash >>> 0).toString(16) + "-" + bytes.length.toString(16) + '"';
}`,
}
