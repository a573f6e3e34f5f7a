package site

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Mozbe AI · bookings on autopilot</title>
<style>
body{margin:0;font-family:system-ui,-apple-system,Segoe UI,sans-serif;color:#111}
.nav{display:flex;justify-content:space-between;align-items:center;padding:16px 24px}
.nav__toggle{display:none}
#menu{display:flex;gap:16px;list-style:none;margin:0;padding:0}
@media (max-width:720px){.nav__toggle{display:block}#menu{display:none}#menu.open{display:flex;flex-direction:column}}
.hero{display:grid;grid-template-columns:1fr 1fr;gap:32px;padding:48px 24px}
.chat{height:360px;overflow-y:auto;border:1px solid #eee;border-radius:16px;padding:16px;display:flex;flex-direction:column;gap:8px}
.bubble{max-width:80%;padding:10px 14px;border-radius:14px;white-space:pre-wrap}
.bubble--ai{background:#f2f2f7;align-self:flex-start}
.bubble--user{background:#2f6bff;color:#fff;align-self:flex-end}
.confirm{align-self:center;font-size:.9em;color:#0a7d38;background:#e8f8ee;padding:6px 12px;border-radius:999px}
.typing__dot{display:inline-block;width:6px;height:6px;margin:0 2px;border-radius:50%;background:#999}
.metrics{display:flex;gap:48px;padding:24px}
.metric__value{font-size:2.5em;font-weight:700}
</style>
</head>
<body>
<header class="nav">
  <strong>Mozbe AI</strong>
  <button class="nav__toggle" aria-expanded="false" aria-controls="menu">Menu</button>
  <ul id="menu">
    <li><a href="#top">Demo</a></li>
    <li><a href="#metrics">Results</a></li>
    <li><a href="#contact-section">Contact</a></li>
  </ul>
</header>

<section id="top" class="hero">
  <div>
    <h1>Never miss a booking.</h1>
    <p>Mozbe answers every call and text, finds a slot and books it while you work.</p>
  </div>
  <div>
    <div class="chat" aria-live="polite"></div>
    <button class="chat__replay" type="button">Replay</button>
  </div>
</section>

<section id="metrics" class="metrics">
{{range .Metrics}}  <div class="metric">
    <div class="metric__value"{{if .Valid}} data-count="{{.Raw}}" data-frames="{{json .Frames}}"{{end}}>{{if .Valid}}0{{else}}{{.Raw}}{{end}}</div>
    <div class="metric__label">{{.Label}}</div>
  </div>
{{end}}</section>

<section id="contact-section">
  <form id="contact" action="/contact" method="POST">
    <input name="name" placeholder="Name" required>
    <input name="email" type="email" placeholder="Email" required>
    <textarea name="message" placeholder="How can we help?"></textarea>
    <button type="submit">Send</button>
    <p class="form__status" role="status"></p>
  </form>
</section>

<footer>&copy; <span id="year">{{.Year}}</span> Mozbe AI</footer>

<script>
(() => {
  const toggle = document.querySelector('.nav__toggle');
  const menu = document.getElementById('menu');
  if (!toggle || !menu) return;
  toggle.addEventListener('click', () => {
    toggle.setAttribute('aria-expanded', String(menu.classList.toggle('open')));
  });
})();

(() => {
  const counters = document.querySelectorAll('[data-frames]');
  if (!counters.length || !('IntersectionObserver' in window)) return;
  const play = (el) => {
    const frames = JSON.parse(el.dataset.frames);
    let i = 0;
    const step = () => {
      el.textContent = String(frames[i++]);
      if (i < frames.length) requestAnimationFrame(step);
    };
    requestAnimationFrame(step);
  };
  const io = new IntersectionObserver((entries) => {
    entries.forEach(e => { if (e.isIntersecting) { play(e.target); io.unobserve(e.target); } });
  }, { threshold: 0.35 });
  counters.forEach(c => io.observe(c));
})();

(() => {
  const form = document.getElementById('contact');
  if (!form) return;
  const status = document.querySelector('.form__status');
  const fallback = {{.FallbackEmail}};
  form.addEventListener('submit', async (e) => {
    e.preventDefault();
    if (status) status.textContent = {{.Sending}};
    try {
      const resp = await fetch(form.action, { method: 'POST', body: new FormData(form), headers: { 'Accept': 'application/json' } });
      const body = await resp.json();
      if (status) status.textContent = body.status;
      if (body.ok) form.reset();
    } catch (err) {
      if (status) status.textContent = 'Network error. Please email ' + fallback;
    }
  });
})();

(() => {
  const hero = document.querySelector('#top');
  const chat = hero && hero.querySelector('.chat');
  if (!chat || !('WebSocket' in window)) return;
  const replayBtn = hero.querySelector('.chat__replay');
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  const ws = new WebSocket(proto + '//' + location.host + '/chat/ws?vertical=' + encodeURIComponent({{.Vertical}}));
  const send = (m) => { if (ws.readyState === 1) ws.send(JSON.stringify(m)); };
  let bubbles = [];
  let typing = null;

  const apply = (op) => {
    switch (op.kind) {
      case 'clear': chat.innerHTML = ''; bubbles = []; typing = null; break;
      case 'typing':
        typing = document.createElement('div');
        typing.className = 'typing bubble bubble--ai';
        for (let i = 0; i < 3; i++) { const d = document.createElement('span'); d.className = 'typing__dot'; typing.appendChild(d); }
        chat.appendChild(typing);
        break;
      case 'typing_done': if (typing) { typing.remove(); typing = null; } break;
      case 'bubble': {
        const el = document.createElement('div');
        el.className = op.role === 'confirmation' ? 'confirm' : 'bubble bubble--' + (op.role === 'assistant' ? 'ai' : 'user');
        el.textContent = op.text || '';
        chat.appendChild(el);
        bubbles.push(el);
        break;
      }
      case 'text': if (bubbles[op.index]) bubbles[op.index].textContent = op.text || ''; break;
      case 'scroll': chat.scrollTop = chat.scrollHeight; break;
    }
  };

  ws.addEventListener('message', (ev) => {
    const msg = JSON.parse(ev.data);
    if (msg.type === 'op') apply(msg.op);
  });
  ws.addEventListener('open', () => {
    const rect = hero.getBoundingClientRect();
    send({
      type: 'hello',
      rect: { top: rect.top, bottom: rect.bottom },
      viewport_height: window.innerHeight || document.documentElement.clientHeight,
      reduced_motion: window.matchMedia('(prefers-reduced-motion: reduce)').matches
    });
    if ('IntersectionObserver' in window) {
      const observer = new IntersectionObserver((entries) => {
        entries.forEach(e => {
          if (e.isIntersecting) { send({ type: 'visibility', ratio: e.intersectionRatio }); observer.disconnect(); }
        });
      }, { threshold: 0.1 });
      observer.observe(hero);
    }
    setInterval(() => send({ type: 'ping' }), 30000);
  });
  if (replayBtn) replayBtn.addEventListener('click', () => send({ type: 'replay' }));
})();
</script>
</body>
</html>
`
