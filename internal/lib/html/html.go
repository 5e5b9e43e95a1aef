package html

// ThankYou is served when a member follows an email-action link in a browser.
const ThankYou = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Thank you</title>
</head>
<body>
  <header><h1>THANK YOU!</h1></header>
  <div class="main-content">
    <p>Thanks for verifying, you are all set!</p>
  </div>
  <footer><p>Messaging Service</p></footer>
</body>
</html>`
