package session

const (
	promptPIN        = "Enter PIN: "
	promptOption     = "Select an option: "
	promptDeposit    = "Enter deposit amount: $"
	promptWithdrawal = "Enter withdrawal amount: $"
	promptNewPIN     = "Enter new PIN: "

	msgAuthenticated     = "Authentication successful."
	msgAccessDenied      = "Invalid PIN. Access denied."
	msgLocked            = "Too many failed PIN attempts. Please try again later."
	msgBalance           = "Your current balance is: $%s"
	msgDeposited         = "Deposited $%s. New balance: $%s"
	msgWithdrew          = "Withdrew $%s. New balance: $%s"
	msgDepositInvalid    = "Deposit amount must be greater than 0."
	msgWithdrawalInvalid = "Withdrawal amount must be greater than 0."
	msgInsufficientFunds = "Insufficient funds!"
	msgBalanceLimit      = "Deposit would exceed the maximum balance."
	msgMalformedAmount   = "Invalid amount."
	msgPINChanged        = "PIN changed successfully."
	msgPINChangeFailed   = "PIN could not be changed."
	msgHistoryHeader     = "\nTransaction History:"
	msgNoTransactions    = "No transactions made yet."
	msgHistoryDeposit    = "Deposited: $%s"
	msgHistoryWithdrawal = "Withdrew: $%s"
	msgGoodbye           = "Thank you for using the ATM. Goodbye!"
	msgInvalidSelection  = "Invalid option. Please select a valid option."
)

const menu = `
--- ATM Menu ---
1. Check Balance
2. Deposit Cash
3. Withdraw Cash
4. Change PIN
5. View Transaction History
6. Exit`
