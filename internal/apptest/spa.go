package apptest

// indexHTML is the hash-routed single page app the suites drive. It mirrors
// only the login surface of the real app: home (receipt login), admin login,
// receiver login, and the landing routes each flow ends on. Every hashchange
// is recorded in window.__routeLog so tests can assert route transitions.
const indexHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Tipline</title>
</head>
<body>
<div id="view"></div>
<script>
window.__routeLog = [];

function route() {
  var h = window.location.hash.replace(/^#/, '');
  return h === '' ? '/' : h;
}

function post(path, body, done) {
  fetch(path, {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body)
  }).then(function (res) {
    done(res.ok);
  }).catch(function () {
    done(false);
  });
}

function homeView() {
  return '<h1>Report a wrongdoing</h1>' +
    '<p>Have you already filed a report? Enter your receipt.</p>' +
    '<input name="receipt" type="text">' +
    '<button id="login-button">Proceed</button>' +
    '<p id="login-error" hidden>Invalid receipt</p>';
}

function adminLoginView() {
  return '<h1>Administration login</h1>' +
    '<input name="username" type="text">' +
    '<input name="password" type="password">' +
    '<button id="admin-login-button">Log in</button>' +
    '<p id="login-error" hidden>Invalid credentials</p>';
}

function receiverLoginView() {
  return '<h1>Receiver login</h1>' +
    '<select name="receiver"></select>' +
    '<input name="password" type="password">' +
    '<button id="login-button">Log in as receiver</button>' +
    '<p id="login-error" hidden>Invalid credentials</p>';
}

function landingView(title) {
  return '<h1>' + title + '</h1>' +
    '<a id="logout-link" href="#">Logout</a>';
}

function statusView() {
  return '<h1>Your submission</h1>' +
    '<a id="download-link" href="/download/report.pdf">report.pdf</a>' +
    '<a id="logout-link" href="#">Logout</a>';
}

function showError() {
  var el = document.getElementById('login-error');
  if (el) { el.hidden = false; }
}

function bindHome() {
  document.getElementById('login-button').addEventListener('click', function () {
    var receipt = document.querySelector('input[name="receipt"]').value;
    post('/api/receiptauth', {receipt: receipt}, function (ok) {
      if (ok) { window.location.hash = '/status'; } else { showError(); }
    });
  });
}

function bindAdmin() {
  document.getElementById('admin-login-button').addEventListener('click', function () {
    var username = document.querySelector('input[name="username"]').value;
    var password = document.querySelector('input[name="password"]').value;
    post('/api/authentication', {role: 'admin', username: username, password: password}, function (ok) {
      if (ok) { window.location.hash = '/admin/landing'; } else { showError(); }
    });
  });
}

function bindReceiver(fromRoute) {
  var select = document.querySelector('select[name="receiver"]');
  fetch('/api/receivers').then(function (res) {
    return res.json();
  }).then(function (data) {
    data.receivers.forEach(function (name) {
      var opt = document.createElement('option');
      opt.value = name;
      opt.textContent = name;
      select.appendChild(opt);
    });
  });

  document.getElementById('login-button').addEventListener('click', function () {
    var password = document.querySelector('input[name="password"]').value;
    post('/api/authentication', {role: 'receiver', username: select.value, password: password}, function (ok) {
      if (!ok) { showError(); return; }
      if (fromRoute === '/login') {
        window.location.hash = '/receiver/tips';
      }
      // A custom login route stays on its own fragment after login.
    });
  });
}

function bindLogout() {
  document.getElementById('logout-link').addEventListener('click', function (ev) {
    ev.preventDefault();
    window.location.hash = '/';
  });
}

function render() {
  var r = route();
  var view = document.getElementById('view');
  if (r === '/admin') {
    view.innerHTML = adminLoginView();
    bindAdmin();
  } else if (r === '/login' || r === '/other') {
    view.innerHTML = receiverLoginView();
    bindReceiver(r);
  } else if (r === '/admin/landing') {
    view.innerHTML = landingView('Administration');
    bindLogout();
  } else if (r === '/receiver/tips') {
    view.innerHTML = landingView('Reported tips');
    bindLogout();
  } else if (r === '/status') {
    view.innerHTML = statusView();
    bindLogout();
  } else {
    view.innerHTML = homeView();
    bindHome();
  }
}

window.addEventListener('hashchange', function () {
  window.__routeLog.push(window.location.hash);
  render();
});

window.__routeLog.push(window.location.hash);
render();
</script>
</body>
</html>
`
