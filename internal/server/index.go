package server

// indexPage 内置首页: 三文件上传表单, 结果直接展示接口返回的 JSON
const indexPage = `<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8">
<title>OreSync</title>
<style>
  body { font-family: sans-serif; max-width: 640px; margin: 40px auto; }
  label { display: block; margin: 12px 0 4px; }
  pre { background: #f4f4f4; padding: 12px; overflow: auto; }
  button { margin-top: 16px; padding: 8px 24px; }
</style>
</head>
<body>
<h1>OreSync</h1>
<p>Carica il timesheet settimanale, la mappatura commesse e il registro da aggiornare.</p>
<form id="f">
  <label>Timesheet (xlsx)</label><input type="file" name="timesheet" required>
  <label>Mappatura commesse (xlsx)</label><input type="file" name="mapping" required>
  <label>Registro (xlsx)</label><input type="file" name="ledger" required>
  <button type="submit">Sincronizza</button>
</form>
<pre id="out"></pre>
<script>
document.getElementById('f').addEventListener('submit', async (e) => {
  e.preventDefault();
  const out = document.getElementById('out');
  out.textContent = '...';
  const res = await fetch('/api/sync', { method: 'POST', body: new FormData(e.target) });
  const body = await res.json();
  out.textContent = JSON.stringify(body, null, 2);
  if (body.downloadUrl) {
    window.location = body.downloadUrl;
  }
});
</script>
</body>
</html>
`
